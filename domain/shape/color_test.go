package shape

import (
	"image/color"
	"testing"
)

func TestCalculateColor(t *testing.T) {
	base := color.RGBA{R: 0, G: 200, B: 0}
	if got := CalculateColor(base, 1); got != (color.RGBA{R: 30, G: 230, B: 30, A: 255}) {
		t.Fatalf("id 1: got %v", got)
	}
	// (2*30)%60 == 0
	if got := CalculateColor(base, 2); got != (color.RGBA{R: 0, G: 200, B: 0, A: 255}) {
		t.Fatalf("id 2: got %v", got)
	}
	// (3*30)%60 == 30
	if got := CalculateColor(base, 3); got != (color.RGBA{R: 30, G: 230, B: 30, A: 255}) {
		t.Fatalf("id 3: got %v", got)
	}
	if CalculateColor(base, 5) != CalculateColor(base, 5) {
		t.Fatalf("color derivation must be deterministic")
	}
}

func TestCalculateColor_ClampsChannels(t *testing.T) {
	got := CalculateColor(color.RGBA{R: 250, G: 240, B: 0}, 1)
	if got != (color.RGBA{R: 255, G: 255, B: 30, A: 255}) {
		t.Fatalf("expected clamped channels, got %v", got)
	}
}
