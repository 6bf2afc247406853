package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/frame-labeler/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the settings form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	onApplied func(*config.Config)
	applyBtn  *ButtonWidget
	widgets   map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg. onApplied runs after a
// successful save and may be nil.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApplied func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApplied: onApplied, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(10))
		Grid(w, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("hitTolerance", "Border Tolerance Px", fmt.Sprintf("%d", c.HitTolerance))
	makeRow("cornerTolerance", "Corner Tolerance Px", fmt.Sprintf("%d", c.CornerTolerance))
	makeRow("minBoxSize", "Min Box Size Px", fmt.Sprintf("%d", c.MinBoxSize))
	makeRow("blinkIntervalMs", "Blink Interval Ms", fmt.Sprintf("%d", c.BlinkIntervalMs))
	makeRow("detectorThreshold", "Detector Threshold", fmt.Sprintf("%.2f", c.DetectorThreshold))
	makeRow("autoDetect", "Auto Detect (true/false)", fmt.Sprintf("%t", c.AutoDetect))
	makeRow("trackerMaxAge", "Tracker Max Age", fmt.Sprintf("%d", c.TrackerMaxAge))
	makeRow("trackerMinHits", "Tracker Min Hits", fmt.Sprintf("%d", c.TrackerMinHits))
	makeRow("trackerIoU", "Tracker IoU Threshold", fmt.Sprintf("%.2f", c.TrackerIoUThreshold))
	makeRow("templateSearchPx", "Propagation Search Px", fmt.Sprintf("%d", c.TemplateSearchPx))
	makeRow("templateThreshold", "Propagation Min Score", fmt.Sprintf("%.2f", c.TemplateThreshold))
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignFloat := func(id string, dst *float64) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if f, ok := parseFloatField(strings.TrimSpace(v.text(w))); ok {
			*dst = f
		}
	}
	assignInt := func(id string, dst *int) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if i, ok := parseIntField(strings.TrimSpace(v.text(w))); ok {
			*dst = i
		}
	}
	assignBool := func(id string, dst *bool) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if b, ok := parseBoolLoose(strings.TrimSpace(v.text(w))); ok {
			*dst = b
		}
	}
	assignInt("hitTolerance", &cfg.HitTolerance)
	assignInt("cornerTolerance", &cfg.CornerTolerance)
	assignInt("minBoxSize", &cfg.MinBoxSize)
	assignInt("blinkIntervalMs", &cfg.BlinkIntervalMs)
	assignFloat("detectorThreshold", &cfg.DetectorThreshold)
	assignBool("autoDetect", &cfg.AutoDetect)
	assignInt("trackerMaxAge", &cfg.TrackerMaxAge)
	assignInt("trackerMinHits", &cfg.TrackerMinHits)
	assignFloat("trackerIoU", &cfg.TrackerIoUThreshold)
	assignInt("templateSearchPx", &cfg.TemplateSearchPx)
	assignFloat("templateThreshold", &cfg.TemplateThreshold)
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		return
	}
	if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApplied != nil {
		v.onApplied(v.cfg)
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
