package presenter

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/frame-labeler/domain/annotation"
	"github.com/soocke/frame-labeler/domain/assist"
	"github.com/soocke/frame-labeler/domain/registry"
	"github.com/soocke/frame-labeler/domain/shape"
	"github.com/soocke/frame-labeler/ui/model"
)

// FrameSource provides decoded frames by index.
type FrameSource interface {
	Len() int
	Frame(i int) (image.Image, error)
}

// FrameEditor is the editing context narrowed to frame switching and shape import.
type FrameEditor interface {
	Frame() int
	SetFrame(frame int)
	AddShape(frame int, label string, rect image.Rectangle) (shape.Shape, error)
	Registry() *registry.Registry
}

// FrameCanvas receives the decoded frame.
type FrameCanvas interface {
	SetFrameImage(img image.Image)
	Invalidate()
}

// Assistant runs detection and tracking on a frame.
type Assistant interface {
	Run(ctx context.Context, f assist.Frame) ([]annotation.Annotation, error)
	Rerun(ctx context.Context, f assist.Frame) ([]annotation.Annotation, error)
}

// FrameInfoView shows the frame position and shape counts.
type FrameInfoView interface {
	SetFrameInfo(index, total, shapes int)
}

// FramePresenter owns frame navigation, assisted labeling and CSV export.
type FramePresenter struct {
	source      FrameSource
	editor      FrameEditor
	canvas      FrameCanvas
	assistant   Assistant
	annotations *annotation.Store
	status      StatusSink
	view        FrameInfoView
	videoID     string
	autoDetect  bool
	visited     map[int]bool
	logger      *slog.Logger
}

// StatusSink accepts status messages.
type StatusSink interface {
	Info(text string)
	Error(text string)
}

// FrameDeps groups FramePresenter collaborators.
type FrameDeps struct {
	Source      FrameSource
	Editor      FrameEditor
	Canvas      FrameCanvas
	Assistant   Assistant
	Annotations *annotation.Store
	Status      StatusSink
	View        FrameInfoView
	VideoID     string
	AutoDetect  bool
	Logger      *slog.Logger
}

func NewFramePresenter(d FrameDeps) *FramePresenter {
	if d.Status == nil {
		d.Status = model.NewStatusModel()
	}
	return &FramePresenter{
		source: d.Source, editor: d.Editor, canvas: d.Canvas, assistant: d.Assistant,
		annotations: d.Annotations, status: d.Status, view: d.View, videoID: d.VideoID,
		autoDetect: d.AutoDetect, visited: map[int]bool{}, logger: d.Logger,
	}
}

func (p *FramePresenter) total() int {
	if p.source == nil {
		return 0
	}
	return p.source.Len()
}

// Show switches to frame i, decoding it and running detection on first visit
// when auto-detect is on.
func (p *FramePresenter) Show(i int) {
	if p == nil || p.editor == nil {
		return
	}
	if n := p.total(); n > 0 {
		i = max(0, min(i, n-1))
	} else {
		i = max(0, i)
	}
	p.editor.SetFrame(i)
	var img image.Image
	if p.source != nil && p.source.Len() > 0 {
		var err error
		img, err = p.source.Frame(i)
		if err != nil {
			p.status.Error(fmt.Sprintf("frame %d: %v", i, err))
			if p.logger != nil {
				p.logger.Error("frame decode failed", "frame", i, "error", err)
			}
		}
	}
	if p.canvas != nil {
		p.canvas.SetFrameImage(img)
	}
	if p.autoDetect && img != nil && !p.visited[i] {
		p.runAssist(false, assist.Frame{Index: i, Image: img})
	}
	p.visited[i] = true
	p.refreshInfo()
}

// Next advances one frame.
func (p *FramePresenter) Next() {
	if p != nil && p.editor != nil {
		p.Show(p.editor.Frame() + 1)
	}
}

// Prev goes back one frame.
func (p *FramePresenter) Prev() {
	if p != nil && p.editor != nil {
		p.Show(p.editor.Frame() - 1)
	}
}

// SetAutoDetect toggles detection on first visit of a frame.
func (p *FramePresenter) SetAutoDetect(on bool) {
	if p != nil {
		p.autoDetect = on
	}
}

// AutoDetect reports whether auto-detect is on.
func (p *FramePresenter) AutoDetect() bool { return p != nil && p.autoDetect }

// Rerun repeats detection on the current frame, replacing its tracker results.
func (p *FramePresenter) Rerun() {
	if p == nil || p.editor == nil || p.source == nil || p.source.Len() == 0 {
		return
	}
	i := p.editor.Frame()
	img, err := p.source.Frame(i)
	if err != nil {
		p.status.Error(fmt.Sprintf("frame %d: %v", i, err))
		return
	}
	p.runAssist(true, assist.Frame{Index: i, Image: img})
	p.refreshInfo()
}

func (p *FramePresenter) runAssist(rerun bool, f assist.Frame) {
	if p.assistant == nil {
		return
	}
	run := p.assistant.Run
	if rerun {
		run = p.assistant.Rerun
	}
	added, err := run(context.Background(), f)
	if err != nil {
		p.status.Error(fmt.Sprintf("detection failed: %v", err))
		if p.logger != nil {
			p.logger.Error("assist failed", "frame", f.Index, "error", err)
		}
		return
	}
	p.status.Info(fmt.Sprintf("frame %d: %d tracked objects", f.Index, len(added)))
	if p.canvas != nil {
		p.canvas.Invalidate()
	}
}

// AcceptTracks converts the current frame's tracker annotations into editable
// boxes. It returns how many shapes were added.
func (p *FramePresenter) AcceptTracks() int {
	if p == nil || p.editor == nil || p.annotations == nil {
		return 0
	}
	frame := p.editor.Frame()
	n := 0
	var saveErr error
	for _, a := range p.annotations.ByFrame(frame) {
		if a.Source != annotation.SourceTracker || a.Box.Dx() == 0 || a.Box.Dy() == 0 {
			continue
		}
		s, err := p.editor.AddShape(frame, a.Label, a.Box)
		if s != nil {
			// in the registry even when the save failed
			n++
		}
		if err != nil {
			saveErr = err
			break
		}
	}
	if n > 0 {
		p.annotations.RemoveFrameSource(frame, annotation.SourceTracker)
	}
	switch {
	case saveErr != nil:
		p.status.Error(fmt.Sprintf("accept tracks: %v", saveErr))
	case n > 0:
		p.status.Info(fmt.Sprintf("accepted %d tracked boxes", n))
	}
	if p.canvas != nil {
		p.canvas.Invalidate()
	}
	p.refreshInfo()
	return n
}

// Annotations merges every shape in the registry as manual rows with the
// pending tracker rows.
func (p *FramePresenter) Annotations() *annotation.Store {
	out := annotation.NewStore()
	if p == nil || p.editor == nil {
		return out
	}
	reg := p.editor.Registry()
	for _, f := range reg.Frames() {
		for _, s := range reg.Shapes(f) {
			out.Add(annotation.Annotation{
				VideoID: p.videoID, Frame: f, Label: s.Label(), Box: s.Bounds(), Source: annotation.SourceManual,
			})
		}
	}
	if p.annotations != nil {
		for _, a := range p.annotations.BySource(annotation.SourceTracker) {
			a.AnnotationID = 0
			out.Add(a)
		}
	}
	return out
}

// ExportCSV writes all annotations to path.
func (p *FramePresenter) ExportCSV(path string) error {
	store := p.Annotations()
	if err := store.SaveCSV(path); err != nil {
		p.status.Error(fmt.Sprintf("export failed: %v", err))
		return err
	}
	p.status.Info(fmt.Sprintf("exported %s rows to %s", humanize.Comma(int64(store.Len())), path))
	if p.logger != nil {
		p.logger.Info("csv exported", "path", path, "rows", store.Len())
	}
	return nil
}

// Tick keeps the frame info current as shapes change.
func (p *FramePresenter) Tick(now time.Time) {
	if p == nil || p.editor == nil {
		return
	}
	p.refreshInfo()
}

func (p *FramePresenter) refreshInfo() {
	if p.view == nil {
		return
	}
	i := p.editor.Frame()
	p.view.SetFrameInfo(i, p.total(), len(p.editor.Registry().Shapes(i)))
}
