package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/frame-labeler/config"
	"github.com/soocke/frame-labeler/debug"
	"github.com/soocke/frame-labeler/ui/theme"
	"github.com/soocke/frame-labeler/ui/view"
)

const (
	tick = 100 * time.Millisecond
)

type app struct {
	title   string
	c       *AppContainer
	afterID string
	cancel  context.CancelFunc
	gauges  *debug.Snapshot
}

// NewApp builds the container and configures the main window.
func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) (*app, error) {
	c, err := BuildContainer(cfg, cfgPath, logger)
	if err != nil {
		return nil, err
	}
	a := &app{title: title, c: c}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", cfg.WindowWidth, cfg.WindowHeight))
	return a, nil
}

// Start builds the UI, shows the first frame and enters the Tk event loop.
func (a *app) Start() {
	c := a.c
	theme.InitStyles()
	c.RootView = view.NewRootView(c.Config, c.ConfigPath, c.Logger)
	c.Wire(c.RootView, a.scheduleUpdate)
	c.RootView.Build(c.Config.LabelOptions, c.Handlers(c.RootView, a.exitHandler))
	c.RootView.SetAutoDetect(c.Config.AutoDetect)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if c.Config.Debug {
		a.gauges = &debug.Snapshot{}
		a.publishGauges()
		debug.StartRuntimeLogger(ctx, 5*time.Second, c.Logger, a.gauges.Gauges)
	}

	c.FramePresenter.Show(0)
	c.Logger.Info("labeler started", "project", c.Project.Path(), "frames_dir", c.Config.FramesDir, "shapes", c.Registry.Len())

	// Kick off update loop.
	a.scheduleUpdate()

	App.Wait()
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() {
		a.publishGauges()
		a.c.Loop.Tick()
	})
}

// publishGauges copies the debug gauges out of the UI state. Tk thread only.
func (a *app) publishGauges() {
	if a.gauges == nil {
		return
	}
	c := a.c
	cached := 0
	if c.Frames != nil {
		cached = c.Frames.Cached()
	}
	a.gauges.Publish("frames_cached", cached, "shapes", c.Registry.Len(), "tracks", c.Tracker.Len())
}

func (a *app) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if a.cancel != nil {
		a.cancel()
	}
	c := a.c
	if err := c.Editor.Save(); err != nil {
		c.Logger.Error("final save failed", "error", err)
	}
	if w, h, ok := c.RootView.WindowSize(); ok && (w != c.Config.WindowWidth || h != c.Config.WindowHeight) {
		c.Config.WindowWidth, c.Config.WindowHeight = w, h
		if err := c.Config.Save(c.ConfigPath); err != nil {
			c.Logger.Warn("window size not saved", "error", err)
		}
	}
	Destroy(App)
}
