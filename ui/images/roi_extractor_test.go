package images

import (
	"image"
	"image/color"
	"testing"
)

func TestExtractROI_CentersAndClamps(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	roi, rect, err := ExtractROI(frame, image.Pt(50, 50), 40)
	if err != nil || roi == nil {
		t.Fatalf("expected ROI, got err=%v", err)
	}
	if rect != image.Rect(30, 30, 70, 70) {
		t.Fatalf("unexpected rect %v", rect)
	}
	if roi.Bounds().Dx() != 40 || roi.Bounds().Dy() != 40 {
		t.Fatalf("expected 40x40 crop, got %v", roi.Bounds())
	}
}

func TestExtractROI_ShiftsInsideNearEdge(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 20, 20))
	_, rect, err := ExtractROI(frame, image.Pt(19, 1), 10)
	if err != nil {
		t.Fatalf("roi error: %v", err)
	}
	if rect != image.Rect(10, 0, 20, 10) {
		t.Fatalf("expected crop kept inside the frame, got %v", rect)
	}
}

func TestExtractROI_LargerThanFrame(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 8, 6))
	_, rect, err := ExtractROI(frame, image.Pt(4, 3), 50)
	if err != nil || rect != frame.Bounds() {
		t.Fatalf("expected whole frame, got %v err=%v", rect, err)
	}
	if _, _, err := ExtractROI(nil, image.Point{}, 4); err == nil {
		t.Fatalf("expected error for nil frame")
	}
}

func TestMagnify(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	frame.Set(5, 5, color.RGBA{R: 255, A: 255})
	out, err := Magnify(frame, image.Pt(5, 5), 4, 3)
	if err != nil {
		t.Fatalf("magnify: %v", err)
	}
	if out.Bounds().Dx() != 12 || out.Bounds().Dy() != 12 {
		t.Fatalf("expected 12x12, got %v", out.Bounds())
	}
	// crop starts at (3,3); pixel (5,5) lands at (2,2) -> scaled block [6,9)
	if out.NRGBAAt(7, 7).R != 255 {
		t.Fatalf("expected red block in magnified output")
	}
}
