package view

import (
	"image"
	"log/slog"
	"strconv"
	"time"

	"github.com/soocke/frame-labeler/config"
	"github.com/soocke/frame-labeler/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Canvas      CanvasView
	Help        HelpOverlay

	// Widgets
	StateLabel  *LabelWidget
	StatusLabel *LabelWidget
	LabelSelect *TComboboxWidget
	autoBtn     *ButtonWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStateLabel(text string)
	SetStatus(text string, isError bool)
	SetFrameInfo(index, total, shapes int)
	SetSession(session, total time.Duration)
	SetCanvas(img image.Image)
	SetMagnifier(img image.Image)
	SetAutoDetect(on bool)
}

var _ UI = (*RootView)(nil)

// Handlers are the user actions the root view forwards.
type Handlers struct {
	LabelChanged  func(label string)
	Prev          func()
	Next          func()
	Rerun         func()
	ToggleAuto    func()
	AcceptTracks  func()
	Save          func()
	ExportCSV     func()
	Delete        func()
	Cancel        func()
	Exit          func()
	Canvas        CanvasHandlers
	ConfigApplied func(*config.Config)
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

func orNoop(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return fn
}

// Build constructs the layout. labels fill the label dropdown; the first one
// is selected and reported through LabelChanged.
func (rv *RootView) Build(labels []string, h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: label selection, navigation and actions
	toolbar := Frame()
	Grid(toolbar, Row(0), Column(0), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	if len(labels) == 0 {
		labels = []string{"<none>"}
	}
	rv.LabelSelect = TCombobox(Values(labels), Width(16))
	Grid(rv.LabelSelect, In(toolbar), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.LabelSelect.Current(0)
	Bind(rv.LabelSelect, "<<ComboboxSelected>>", Command(func() {
		if rv.LabelSelect == nil || h.LabelChanged == nil {
			return
		}
		idxStr := rv.LabelSelect.Current(nil)
		idx, err := strconv.Atoi(idxStr)
		if err == nil && idx >= 0 && idx < len(labels) {
			h.LabelChanged(labels[idx])
		} else if rv.logger != nil {
			rv.logger.Error("label selection parse error", "error", err)
		}
	}))
	if h.LabelChanged != nil {
		h.LabelChanged(labels[0])
	}

	col := 1
	addButton := func(text string, fn func()) *ButtonWidget {
		b := Button(Txt(text), Command(orNoop(fn)))
		Grid(b, In(toolbar), Row(0), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		col++
		return b
	}
	addButton("< Prev", h.Prev)
	addButton("Next >", h.Next)
	addButton("Detect", h.Rerun)
	rv.autoBtn = addButton("Auto: off", h.ToggleAuto)
	addButton("Accept Tracks", h.AcceptTracks)
	addButton("Save", h.Save)
	addButton("Export CSV", h.ExportCSV)
	rv.Help = NewHelpOverlay()
	addButton("Help", rv.Help.OpenOrFocus)
	addButton("Dark", func() {
		theme.ToggleDark()
		if h.ConfigApplied != nil {
			h.ConfigApplied(rv.cfg)
		}
	})
	addButton("Exit", h.Exit)
	rv.StateLabel = Label(Txt("Mode: idle"), Borderwidth(1), Relief("ridge"), Width(22))
	Grid(rv.StateLabel, In(toolbar), Row(0), Column(col), Sticky("e"), Padx("0.4m"), Pady("0.3m"))

	// Row 1: canvas with magnifier, settings on the right
	body := Frame()
	Grid(body, Row(1), Column(0), Sticky("nwe"), Padx("0.3m"), Pady("0.3m"))
	rv.Canvas = NewCanvasView(body, 0, h.Canvas)
	side := Frame()
	Grid(side, In(body), Row(1), Column(4), Sticky("n"), Padx("0.3m"), Pady("0.3m"))
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.ConfigApplied)
	rv.ConfigPanel.Build(side, 0)

	// Row 2: status line and session stats
	footer := Frame()
	Grid(footer, Row(2), Column(0), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.Session = NewSessionStats(footer, 0, 0)
	rv.StatusLabel = Label(Txt("Ready"), Anchor("w"), Width(60))
	Grid(rv.StatusLabel, In(footer), Row(0), Column(3), Sticky("we"), Padx("0.4m"))

	// Keyboard shortcuts
	Bind(App, "<Delete>", Command(orNoop(h.Delete)))
	Bind(App, "<Escape>", Command(orNoop(h.Cancel)))
	Bind(App, "<comma>", Command(orNoop(h.Prev)))
	Bind(App, "<period>", Command(orNoop(h.Next)))
	Bind(App, "<Control-s>", Command(orNoop(h.Save)))
}

// SetStateLabel updates the interaction mode label.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetStatus shows a message in the footer, highlighted when it reports a failure.
func (rv *RootView) SetStatus(text string, isError bool) {
	if rv == nil || rv.StatusLabel == nil {
		return
	}
	p := theme.CurrentPalette()
	fg := p.TextMuted
	if isError {
		fg = p.Danger
	}
	rv.StatusLabel.Configure(Txt(text), Foreground(fg))
}

// SetAutoDetect reflects the auto-detect toggle on its button.
func (rv *RootView) SetAutoDetect(on bool) {
	if rv == nil || rv.autoBtn == nil {
		return
	}
	if on {
		rv.autoBtn.Configure(Txt("Auto: on"))
		return
	}
	rv.autoBtn.Configure(Txt("Auto: off"))
}

// SetFrameInfo proxies to the session stats view.
func (rv *RootView) SetFrameInfo(index, total, shapes int) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetFrameInfo(index, total, shapes)
	}
}

// SetSession updates both stretch and total labeling durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

// SetCanvas proxies to the canvas view.
func (rv *RootView) SetCanvas(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.SetCanvas(img)
	}
}

// SetMagnifier proxies to the canvas view.
func (rv *RootView) SetMagnifier(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.SetMagnifier(img)
	}
}

// WindowSize reports the current size of the main window.
func (rv *RootView) WindowSize() (w, h int, ok bool) {
	r, ok := parseGeometry(WmGeometry(App))
	if !ok {
		return 0, 0, false
	}
	return r.Dx(), r.Dy(), true
}
