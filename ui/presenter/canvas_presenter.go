package presenter

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/soocke/frame-labeler/domain/selection"
	"github.com/soocke/frame-labeler/domain/shape"
	"github.com/soocke/frame-labeler/ui/images"
	"github.com/soocke/frame-labeler/ui/model"
	"github.com/soocke/frame-labeler/ui/render"
)

// Editor is the editing surface the canvas drives.
type Editor interface {
	PointerDown(p image.Point)
	PointerMove(p image.Point)
	PointerUp(p image.Point) (bool, error)
	DeleteHovered() (bool, error)
	Cancel()
	Shapes() []shape.Shape
	Draft() (image.Rectangle, bool)
	Label() string
	Selection() *selection.Machine
}

// LabelColors resolves the base color of a label for the draft outline.
type LabelColors interface {
	LabelColor(label string) color.RGBA
}

// CanvasView shows the composed canvas and the magnifier.
type CanvasView interface {
	SetCanvas(img image.Image)
	SetMagnifier(img image.Image)
}

// Magnifier settings.
const (
	magnifierSize   = 48
	magnifierFactor = 3
)

// CanvasPresenter routes pointer input to the editor and redraws on demand.
// Redraws are coalesced and flushed on Tick.
type CanvasPresenter struct {
	editor Editor
	colors LabelColors
	blink  *model.BlinkModel
	status *model.StatusModel
	view   CanvasView
	style  render.Style
	logger *slog.Logger

	frame        image.Image
	maxW, maxH   int
	scale        float64
	pointer      image.Point
	pointerKnown bool
	dirty        bool
	lastActivity time.Time
	now          func() time.Time
}

func NewCanvasPresenter(editor Editor, colors LabelColors, blink *model.BlinkModel, status *model.StatusModel, view CanvasView, style render.Style, logger *slog.Logger) *CanvasPresenter {
	return &CanvasPresenter{
		editor: editor, colors: colors, blink: blink, status: status, view: view,
		style: style, logger: logger, scale: 1, maxW: 1280, maxH: 720, now: time.Now, dirty: true,
	}
}

// SetViewport bounds the displayed canvas size.
func (p *CanvasPresenter) SetViewport(w, h int) {
	if p == nil || w <= 0 || h <= 0 {
		return
	}
	p.maxW, p.maxH = w, h
	p.dirty = true
}

// SetStyle swaps the render style, for example after a theme change.
func (p *CanvasPresenter) SetStyle(st render.Style) {
	if p == nil {
		return
	}
	p.style = st
	p.dirty = true
}

// SetFrameImage replaces the frame under the shapes.
func (p *CanvasPresenter) SetFrameImage(img image.Image) {
	if p == nil {
		return
	}
	p.frame = img
	p.dirty = true
}

// Invalidate requests a redraw on the next Tick.
func (p *CanvasPresenter) Invalidate() {
	if p != nil {
		p.dirty = true
	}
}

// LastActivity returns the time of the last pointer or key input.
func (p *CanvasPresenter) LastActivity() time.Time {
	if p == nil {
		return time.Time{}
	}
	return p.lastActivity
}

func (p *CanvasPresenter) toSource(x, y int) image.Point {
	pt := images.ToSource(image.Pt(x, y), p.scale)
	p.pointer, p.pointerKnown = pt, true
	p.lastActivity = p.now()
	p.dirty = true
	return pt
}

// PointerDown handles a primary button press at view coordinates.
func (p *CanvasPresenter) PointerDown(x, y int) {
	if p == nil || p.editor == nil {
		return
	}
	p.editor.PointerDown(p.toSource(x, y))
}

// PointerMove handles motion, with or without the button held.
func (p *CanvasPresenter) PointerMove(x, y int) {
	if p == nil || p.editor == nil {
		return
	}
	p.editor.PointerMove(p.toSource(x, y))
}

// PointerUp completes the gesture and reports save failures on the status bar.
func (p *CanvasPresenter) PointerUp(x, y int) {
	if p == nil || p.editor == nil {
		return
	}
	changed, err := p.editor.PointerUp(p.toSource(x, y))
	p.report(changed, err, "saved")
}

// Delete removes the hovered shape.
func (p *CanvasPresenter) Delete() {
	if p == nil || p.editor == nil {
		return
	}
	p.lastActivity = p.now()
	changed, err := p.editor.DeleteHovered()
	p.report(changed, err, "shape deleted")
	p.dirty = true
}

// Cancel drops the current gesture.
func (p *CanvasPresenter) Cancel() {
	if p == nil || p.editor == nil {
		return
	}
	p.editor.Cancel()
	p.dirty = true
}

func (p *CanvasPresenter) report(changed bool, err error, msg string) {
	if err != nil {
		p.status.Error(fmt.Sprintf("save failed: %v", err))
		return
	}
	if changed {
		p.status.Info(fmt.Sprintf("%s (%d shapes on frame)", msg, len(p.editor.Shapes())))
	}
}

// Tick flushes a pending redraw.
func (p *CanvasPresenter) Tick(now time.Time) {
	if p == nil || !p.dirty {
		return
	}
	p.Redraw()
}

// Redraw renders immediately.
func (p *CanvasPresenter) Redraw() {
	if p == nil || p.editor == nil || p.view == nil {
		return
	}
	p.dirty = false
	sel := p.editor.Selection()
	sc := render.Scene{
		Frame:   p.frame,
		Shapes:  p.editor.Shapes(),
		Active:  sel.Active(),
		Hovered: sel.Hovered(),
	}
	if idx, ok := sel.HoveredCorner(); ok {
		sc.Corner = idx
		// steady while hovering, blinking while resizing
		sc.CornerVisible = sel.State() != selection.StateResizing || p.blink.On()
	}
	if r, ok := p.editor.Draft(); ok {
		sc.Draft, sc.HasDraft = r, true
		sc.DraftColor = p.style.Handle
		if p.colors != nil {
			sc.DraftColor = p.colors.LabelColor(p.editor.Label())
		}
	}
	composed := render.Render(sc, p.style)
	scaled, factor := images.ScaleToFit(composed, p.maxW, p.maxH)
	p.scale = factor
	p.view.SetCanvas(scaled)
	if p.pointerKnown {
		if mag, err := images.Magnify(composed, p.pointer, magnifierSize, magnifierFactor); err == nil {
			p.view.SetMagnifier(mag)
		} else if p.logger != nil {
			p.logger.Debug("magnifier skipped", "error", err)
		}
	}
}
