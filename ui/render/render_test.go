package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/soocke/frame-labeler/domain/shape"
)

func TestRender_EmptyCanvasUsesStyleSize(t *testing.T) {
	st := DefaultStyle()
	img := Render(Scene{}, st)
	if img.Bounds().Dx() != st.EmptyWidth || img.Bounds().Dy() != st.EmptyHeight {
		t.Fatalf("unexpected canvas size %v", img.Bounds())
	}
	if got := img.NRGBAAt(10, 10); got.R != st.Background.R || got.A != 255 {
		t.Fatalf("expected background color, got %v", got)
	}
}

func TestRender_DoesNotMutateFrame(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	b := shape.NewBox(image.Rect(20, 40, 80, 90), "car", 1, color.RGBA{B: 255})
	out := Render(Scene{Frame: frame, Shapes: []shape.Shape{b}}, DefaultStyle())
	if frame.RGBAAt(20, 60) != (color.RGBA{}) {
		t.Fatalf("source frame must stay untouched")
	}
	if got := out.NRGBAAt(20, 60); got.B != 255 || got.R != 0 {
		t.Fatalf("expected blue outline on left edge, got %v", got)
	}
	if got := out.NRGBAAt(50, 65); got != (color.NRGBA{}) {
		t.Fatalf("interior must stay unpainted, got %v", got)
	}
}

func TestRender_DashedActiveOutline(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 200, 200))
	b := shape.NewBox(image.Rect(0, 50, 100, 150), "car", 1, color.RGBA{G: 200})
	st := DefaultStyle()
	out := Render(Scene{Frame: frame, Shapes: []shape.Shape{b}, Active: b}, st)
	// bottom edge: first dash painted, first gap empty
	if out.NRGBAAt(2, 149).G != 200 {
		t.Fatalf("expected dash at start of bottom edge")
	}
	if out.NRGBAAt(st.Dash+2, 149).G != 0 {
		t.Fatalf("expected gap after first dash")
	}
}

func TestRender_CornerHandleOnlyWhenVisible(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 200, 200))
	b := shape.NewBox(image.Rect(50, 50, 150, 150), "car", 1, color.RGBA{R: 10})
	st := DefaultStyle()
	sc := Scene{Frame: frame, Shapes: []shape.Shape{b}, Active: b, Corner: shape.CornerBottomRight}
	off := Render(sc, st)
	sc.CornerVisible = true
	on := Render(sc, st)
	// just outside the box, inside the handle
	if off.NRGBAAt(151, 151) != (color.NRGBA{}) {
		t.Fatalf("handle must be hidden when not visible")
	}
	if got := on.NRGBAAt(151, 151); got.R != st.Handle.R || got.G != st.Handle.G {
		t.Fatalf("expected handle color, got %v", got)
	}
}

func TestRender_Draft(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 50, 50))
	out := Render(Scene{Frame: frame, HasDraft: true, Draft: image.Rect(10, 10, 40, 40), DraftColor: color.RGBA{R: 255, A: 255}}, DefaultStyle())
	if out.NRGBAAt(11, 10).R != 255 {
		t.Fatalf("expected draft outline")
	}
}
