package assist

import (
	"context"
	"image"
)

// Frame is one decoded video frame handed to the detector and tracker.
type Frame struct {
	Index int
	Image image.Image
}

// Detection is one detector hit.
type Detection struct {
	Label      string
	Confidence float64
	Box        image.Rectangle
}

// Track is a confirmed tracker output.
type Track struct {
	ID    string
	Label string
	Box   image.Rectangle
}

// Detector finds labeled boxes in a frame.
type Detector interface {
	Detect(ctx context.Context, f Frame) ([]Detection, error)
}

// Tracker associates detections across consecutive frames and returns only
// confirmed tracks.
type Tracker interface {
	Update(ctx context.Context, dets []Detection, f Frame) ([]Track, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(ctx context.Context, f Frame) ([]Detection, error)

func (fn DetectorFunc) Detect(ctx context.Context, f Frame) ([]Detection, error) { return fn(ctx, f) }
