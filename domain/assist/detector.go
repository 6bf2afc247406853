package assist

import (
	"context"
	"encoding/json"
	"image"
	"os"

	"github.com/pkg/errors"
)

// ThresholdDetector drops detections of the wrapped detector below Threshold.
type ThresholdDetector struct {
	Inner     Detector
	Threshold float64
}

func (d *ThresholdDetector) Detect(ctx context.Context, f Frame) ([]Detection, error) {
	if d.Inner == nil {
		return nil, nil
	}
	dets, err := d.Inner.Detect(ctx, f)
	if err != nil {
		return nil, err
	}
	out := dets[:0:0]
	for _, det := range dets {
		if det.Confidence >= d.Threshold {
			out = append(out, det)
		}
	}
	return out, nil
}

// sidecarRecord is one row of a precomputed detections file.
type sidecarRecord struct {
	Frame      int     `json:"frame"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
}

// SidecarDetector serves detections produced offline by an external model and
// stored as a JSON array of {frame,label,confidence,x1,y1,x2,y2} rows.
type SidecarDetector struct {
	byFrame map[int][]Detection
}

// LoadSidecar reads a detections file. A missing file yields a detector with no
// detections.
func LoadSidecar(path string) (*SidecarDetector, error) {
	d := &SidecarDetector{byFrame: map[int][]Detection{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, errors.Wrapf(err, "read detections %s", path)
	}
	var rows []sidecarRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrapf(err, "decode detections %s", path)
	}
	for _, r := range rows {
		d.byFrame[r.Frame] = append(d.byFrame[r.Frame], Detection{
			Label:      r.Label,
			Confidence: r.Confidence,
			Box:        image.Rect(r.X1, r.Y1, r.X2, r.Y2),
		})
	}
	return d, nil
}

// Frames returns how many frames carry detections.
func (d *SidecarDetector) Frames() int { return len(d.byFrame) }

func (d *SidecarDetector) Detect(ctx context.Context, f Frame) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Detection(nil), d.byFrame[f.Index]...), nil
}

var (
	_ Detector = (*ThresholdDetector)(nil)
	_ Detector = (*SidecarDetector)(nil)
)
