package images

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestScaleToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out, f := ScaleToFit(src, 200, 200)
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Fatalf("expected 200x100, got %v", out.Bounds())
	}
	if f != 0.5 {
		t.Fatalf("expected factor 0.5, got %f", f)
	}
	same, f := ScaleToFit(src, 800, 800)
	if same != image.Image(src) || f != 1 {
		t.Fatalf("fitting image must be returned unchanged")
	}
}

func TestToSource(t *testing.T) {
	if p := ToSource(image.Pt(100, 51), 0.5); p != image.Pt(200, 102) {
		t.Fatalf("unexpected mapping %v", p)
	}
	if p := ToSource(image.Pt(7, 9), 1); p != image.Pt(7, 9) {
		t.Fatalf("factor 1 must be identity")
	}
}

func TestEncodePNG(t *testing.T) {
	data := EncodePNG(image.NewRGBA(image.Rect(0, 0, 3, 2)))
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil || img.Bounds().Dx() != 3 {
		t.Fatalf("expected decodable 3x2 png, err=%v", err)
	}
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image must encode to nil")
	}
}
