package view

import (
	"image"

	"github.com/soocke/frame-labeler/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CanvasView shows the composed annotation canvas and the magnifier.
// It owns two LabelWidgets and forwards pointer input to CanvasHandlers.
type CanvasView interface {
	SetCanvas(img image.Image)
	SetMagnifier(img image.Image)
	Reset()
}

// CanvasHandlers receive pointer input in canvas pixel coordinates.
type CanvasHandlers struct {
	Down func(x, y int)
	Move func(x, y int)
	Up   func(x, y int)
}

type canvasView struct {
	canvasLabel    *LabelWidget
	magnifierLabel *LabelWidget
	prevCanvas     *Img // last Tk photo image instance for the canvas
	prevMagnifier  *Img // last Tk photo image instance for the magnifier
}

// Old photos are deleted before replacement so off-screen pixel data does not
// accumulate across redraws.

// NewCanvasView creates the canvas and magnifier labels, grids them inside
// parent at row and binds the mouse.
// Layout: canvas spans columns 0-3; the magnifier sits at column 4.
func NewCanvasView(parent *FrameWidget, row int, h CanvasHandlers) CanvasView {
	pngBytes := images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 640, 360)))
	magBytes := images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 144, 144)))
	canvasPhoto := NewPhoto(Data(pngBytes))
	magPhoto := NewPhoto(Data(magBytes))
	canvas := Label(Image(canvasPhoto), Borderwidth(0), Anchor("nw"))
	magnifier := Label(Image(magPhoto), Borderwidth(1), Relief("sunken"), Anchor("n"))
	Grid(canvas, In(parent), Row(row), Column(0), Columnspan(4), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	Grid(magnifier, In(parent), Row(row), Column(4), Sticky("n"), Padx("0.4m"), Pady("0.4m"))

	call := func(fn func(x, y int)) func(*Event) {
		return func(e *Event) {
			if fn != nil && e != nil {
				fn(e.X, e.Y)
			}
		}
	}
	Bind(canvas, "<ButtonPress-1>", Command(call(h.Down)))
	Bind(canvas, "<B1-Motion>", Command(call(h.Move)))
	Bind(canvas, "<Motion>", Command(call(h.Move)))
	Bind(canvas, "<ButtonRelease-1>", Command(call(h.Up)))
	return &canvasView{canvasLabel: canvas, magnifierLabel: magnifier, prevCanvas: canvasPhoto, prevMagnifier: magPhoto}
}

func (v *canvasView) SetCanvas(img image.Image) {
	if v.canvasLabel == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	if v.prevCanvas != nil {
		v.prevCanvas.Delete()
	}
	newPhoto := NewPhoto(Data(pngBytes))
	v.prevCanvas = newPhoto
	v.canvasLabel.Configure(Image(newPhoto))
}

func (v *canvasView) SetMagnifier(img image.Image) {
	if v.magnifierLabel == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	if v.prevMagnifier != nil {
		v.prevMagnifier.Delete()
	}
	newPhoto := NewPhoto(Data(pngBytes))
	v.prevMagnifier = newPhoto
	v.magnifierLabel.Configure(Image(newPhoto))
}

func (v *canvasView) Reset() {
	placeholder := image.NewRGBA(image.Rect(0, 0, 144, 144))
	pngBytes := images.EncodePNG(placeholder)
	if v.magnifierLabel != nil {
		if v.prevMagnifier != nil {
			v.prevMagnifier.Delete()
		}
		v.prevMagnifier = NewPhoto(Data(pngBytes))
		v.magnifierLabel.Configure(Image(v.prevMagnifier))
	}
}
