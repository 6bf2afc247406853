package assist

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// FrameSource provides decoded frames by index.
type FrameSource interface {
	Frame(i int) (image.Image, error)
}

// LabeledBox is a labeled rectangle on a frame.
type LabeledBox struct {
	Label string
	Box   image.Rectangle
}

// TemplateDetector proposes boxes by locating each box of the previous frame
// in the current one. Every previous box is used as a template and searched
// within Search pixels of its old position. Confidence is the NCC score.
type TemplateDetector struct {
	Frames FrameSource
	Boxes  func(frame int) []LabeledBox
	Search int // search margin in pixels (default 24)
	NCC    NCCOptions
}

const minTemplateSide = 4

func (d *TemplateDetector) Detect(ctx context.Context, f Frame) ([]Detection, error) {
	if d.Frames == nil || d.Boxes == nil || f.Image == nil || f.Index <= 0 {
		return nil, nil
	}
	boxes := d.Boxes(f.Index - 1)
	if len(boxes) == 0 {
		return nil, nil
	}
	prev, err := d.Frames.Frame(f.Index - 1)
	if err != nil {
		return nil, errors.Wrapf(err, "template source frame %d", f.Index-1)
	}
	search := d.Search
	if search <= 0 {
		search = 24
	}

	found := make([]*Detection, len(boxes))
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU()) // bound concurrency
	for i, b := range boxes {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, b LabeledBox) {
			defer wg.Done()
			defer func() { <-sem }()
			found[i] = d.locate(prev, f.Image, b, search)
		}(i, b)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Detection, 0, len(found))
	for _, det := range found {
		if det != nil {
			out = append(out, *det)
		}
	}
	return out, nil
}

func (d *TemplateDetector) locate(prev, cur image.Image, b LabeledBox, search int) *Detection {
	tb := b.Box.Canon().Intersect(prev.Bounds())
	if tb.Dx() < minTemplateSide || tb.Dy() < minTemplateSide {
		return nil
	}
	win := tb.Inset(-search).Intersect(cur.Bounds())
	if win.Dx() < tb.Dx() || win.Dy() < tb.Dy() {
		return nil
	}
	res := MatchNCC(newPlane(cur, win), newPlane(prev, tb), d.NCC)
	if res.Score <= 0 {
		return nil
	}
	at := win.Min.Add(image.Pt(res.X, res.Y))
	return &Detection{
		Label:      b.Label,
		Confidence: res.Score,
		Box:        image.Rectangle{Min: at, Max: at.Add(tb.Size())},
	}
}
