package app

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/frame-labeler/config"
	"github.com/soocke/frame-labeler/domain/annotation"
	"github.com/soocke/frame-labeler/domain/assist"
	"github.com/soocke/frame-labeler/domain/editor"
	"github.com/soocke/frame-labeler/domain/frames"
	"github.com/soocke/frame-labeler/domain/project"
	"github.com/soocke/frame-labeler/domain/registry"
	"github.com/soocke/frame-labeler/domain/selection"
	"github.com/soocke/frame-labeler/domain/track"
	"github.com/soocke/frame-labeler/ui/model"
	"github.com/soocke/frame-labeler/ui/presenter"
	"github.com/soocke/frame-labeler/ui/theme"
	"github.com/soocke/frame-labeler/ui/view"
)

// AppContainer assembles domain services, models, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	Registry    *registry.Registry
	Selection   *selection.Machine
	Project     *project.Store
	Editor      *editor.Session
	Frames      *frames.DirSource
	Annotations *annotation.Store
	Tracker     *track.Tracker
	Assistant   *assist.Assistant

	Blink   *model.BlinkModel
	Status  *model.StatusModel
	Session *model.SessionModel

	RootView *view.RootView

	// Presenters
	CanvasPresenter  *presenter.CanvasPresenter
	BlinkPresenter   *presenter.BlinkPresenter
	StatusPresenter  *presenter.StatusPresenter
	SessionPresenter *presenter.SessionPresenter
	FramePresenter   *presenter.FramePresenter
	Loop             *presenter.Loop
}

// BuildContainer constructs the domain side and loads the project file. A
// project that exists but cannot be read is an error so it is never
// overwritten by an empty registry.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	c.Registry = registry.New(registry.WithPalette(cfg.Palette()), registry.WithLogger(logger))
	c.Selection = selection.NewMachine(logger, selection.Settings{
		BorderTolerance: cfg.HitTolerance,
		CornerTolerance: cfg.CornerTolerance,
		MinSize:         cfg.MinBoxSize,
	})
	c.Project = project.NewStore(cfg.ProjectPath(), logger)
	if err := c.Project.Load(c.Registry); err != nil {
		return nil, errors.Wrap(err, "load project")
	}
	c.Editor = editor.NewSession(c.Registry, c.Selection, c.Project, logger)

	c.Blink = model.NewBlinkModel(time.Duration(cfg.BlinkIntervalMs) * time.Millisecond)
	c.Status = model.NewStatusModel()
	c.Session = model.NewSessionModel()

	if src, err := frames.OpenDir(cfg.FramesDir, cfg.FrameCacheSize, logger); err != nil {
		logger.Warn("frames unavailable", "dir", cfg.FramesDir, "error", err)
		c.Status.Error("no frames: " + err.Error())
	} else {
		c.Frames = src
	}

	c.Annotations = annotation.NewStore()
	c.Tracker = track.New(track.Config{
		MaxAge:       cfg.TrackerMaxAge,
		MinHits:      cfg.TrackerMinHits,
		IoUThreshold: cfg.TrackerIoUThreshold,
	}, logger)
	var det assist.Detector
	if cfg.DetectionsFile != "" {
		sc, err := assist.LoadSidecar(cfg.DetectionsFile)
		if err != nil {
			logger.Warn("detections unavailable", "path", cfg.DetectionsFile, "error", err)
		} else {
			logger.Info("detections loaded", "path", cfg.DetectionsFile, "frames", sc.Frames())
			det = &assist.ThresholdDetector{Inner: sc, Threshold: cfg.DetectorThreshold}
		}
	}
	if det == nil {
		det = &assist.ThresholdDetector{Inner: c.templateDetector(), Threshold: cfg.TemplateThreshold}
	}
	c.Assistant = assist.NewAssistant(det, c.Tracker, c.Annotations, cfg.VideoID, logger)
	return c, nil
}

// templateDetector propagates the previous frame's boxes into the current one.
func (c *AppContainer) templateDetector() *assist.TemplateDetector {
	d := &assist.TemplateDetector{
		Boxes: func(frame int) []assist.LabeledBox {
			shapes := c.Registry.Shapes(frame)
			out := make([]assist.LabeledBox, 0, len(shapes))
			for _, s := range shapes {
				out = append(out, assist.LabeledBox{Label: s.Label(), Box: s.Bounds()})
			}
			return out
		},
		Search: c.Config.TemplateSearchPx,
		NCC:    assist.NCCOptions{Stride: 2, Refine: true},
	}
	if c.Frames != nil {
		d.Frames = c.Frames
	}
	return d
}

// Wire creates the presenters against ui and registers selection listeners.
// It must run before the root view is built so view callbacks resolve.
func (c *AppContainer) Wire(ui view.UI, schedule func()) {
	c.CanvasPresenter = presenter.NewCanvasPresenter(c.Editor, c.Registry, c.Blink, c.Status, ui, theme.CanvasStyle(), c.Logger)
	c.CanvasPresenter.SetViewport(c.Config.WindowWidth-220, c.Config.WindowHeight-120)
	c.BlinkPresenter = presenter.NewBlinkPresenter(c.Blink, c.CanvasPresenter)
	c.StatusPresenter = presenter.NewStatusPresenter(c.Status, ui)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.CanvasPresenter, ui)

	deps := presenter.FrameDeps{
		Editor:      c.Editor,
		Canvas:      c.CanvasPresenter,
		Assistant:   c.Assistant,
		Annotations: c.Annotations,
		Status:      c.Status,
		View:        ui,
		VideoID:     c.Config.VideoID,
		AutoDetect:  c.Config.AutoDetect,
		Logger:      c.Logger,
	}
	if c.Frames != nil {
		deps.Source = c.Frames
	}
	c.FramePresenter = presenter.NewFramePresenter(deps)

	c.Selection.AddListener(c.BlinkPresenter.OnState)
	c.Selection.AddListener(c.StatusPresenter.OnState)
	c.Loop = presenter.NewLoop(c.BlinkPresenter, c.StatusPresenter, c.SessionPresenter, c.FramePresenter, c.CanvasPresenter, schedule)
}

// Handlers maps view actions onto presenters.
func (c *AppContainer) Handlers(ui view.UI, exit func()) view.Handlers {
	return view.Handlers{
		LabelChanged: c.Editor.SetLabel,
		Prev:         c.FramePresenter.Prev,
		Next:         c.FramePresenter.Next,
		Rerun:        c.FramePresenter.Rerun,
		ToggleAuto: func() {
			on := !c.FramePresenter.AutoDetect()
			c.FramePresenter.SetAutoDetect(on)
			ui.SetAutoDetect(on)
		},
		AcceptTracks: func() { c.FramePresenter.AcceptTracks() },
		Save: func() {
			if err := c.Editor.Save(); err != nil {
				c.Status.Error("save failed: " + err.Error())
				return
			}
			c.Status.Info("saved " + c.Project.Path())
		},
		ExportCSV: func() { _ = c.FramePresenter.ExportCSV(c.Config.CSVPath()) },
		Delete:    c.CanvasPresenter.Delete,
		Cancel:    c.CanvasPresenter.Cancel,
		Exit:      exit,
		Canvas: view.CanvasHandlers{
			Down: c.CanvasPresenter.PointerDown,
			Move: c.CanvasPresenter.PointerMove,
			Up:   c.CanvasPresenter.PointerUp,
		},
		ConfigApplied: func(cfg *config.Config) {
			c.FramePresenter.SetAutoDetect(cfg.AutoDetect)
			ui.SetAutoDetect(cfg.AutoDetect)
			c.CanvasPresenter.SetStyle(theme.CanvasStyle())
			c.Status.Info("settings saved; tolerances apply on next start")
		},
	}
}
