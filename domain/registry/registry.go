package registry

import (
	"image"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/pkg/errors"

	"github.com/soocke/frame-labeler/domain/shape"
)

// ErrNegativeFrame is returned when a shape is added under a negative frame index.
var ErrNegativeFrame = errors.New("negative frame index")

// Registry is the authoritative store of shapes per frame together with per-label
// base colors and id counters. It is not safe for concurrent use; all access
// happens on the UI thread.
type Registry struct {
	frames   map[int][]shape.Shape
	colors   map[string]color.RGBA
	counters map[string]int
	palette  map[string]color.RGBA
	rng      *rand.Rand
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithPalette seeds fixed base colors for known labels.
func WithPalette(p map[string]color.RGBA) Option {
	return func(r *Registry) {
		for k, v := range p {
			v.A = 255
			r.palette[k] = v
		}
	}
}

// WithRand sets the random source used for colors of labels outside the palette.
func WithRand(rng *rand.Rand) Option { return func(r *Registry) { r.rng = rng } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(r *Registry) { r.logger = l } }

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		frames:   make(map[int][]shape.Shape),
		colors:   make(map[string]color.RGBA),
		counters: make(map[string]int),
		palette:  make(map[string]color.RGBA),
	}
	for _, o := range opts {
		o(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

// AddShape appends s to the frame's list. Duplicates are allowed.
func (r *Registry) AddShape(frame int, s shape.Shape) error {
	if frame < 0 {
		return ErrNegativeFrame
	}
	if s == nil {
		return nil
	}
	r.frames[frame] = append(r.frames[frame], s)
	return nil
}

// Shapes returns the frame's shapes in insertion order. The slice is a copy;
// the shapes themselves are shared.
func (r *Registry) Shapes(frame int) []shape.Shape {
	return slices.Clone(r.frames[frame])
}

// DeleteShape removes s (by identity) from the frame. It reports whether
// anything was removed; unknown frames and shapes are a no-op.
func (r *Registry) DeleteShape(frame int, s shape.Shape) bool {
	list, ok := r.frames[frame]
	if !ok {
		return false
	}
	idx := slices.IndexFunc(list, func(o shape.Shape) bool { return o == s })
	if idx < 0 {
		return false
	}
	list = slices.Delete(list, idx, idx+1)
	if len(list) == 0 {
		delete(r.frames, frame)
	} else {
		r.frames[frame] = list
	}
	return true
}

// HitCorner returns the first shape on the frame with a corner within tolerance of p.
func (r *Registry) HitCorner(frame int, p image.Point, tolerance int) (shape.Shape, int, bool) {
	for _, s := range r.frames[frame] {
		if idx, ok := s.NearestCorner(p, tolerance); ok {
			return s, idx, true
		}
	}
	return nil, -1, false
}

// HitBorder returns the first shape on the frame whose border is within tolerance of p.
func (r *Registry) HitBorder(frame int, p image.Point, tolerance int) shape.Shape {
	for _, s := range r.frames[frame] {
		if s.IsNearBorder(p, tolerance) {
			return s
		}
	}
	return nil
}

// LabelColor returns the label's base color. Configured palette colors win over
// stored ones; other labels get a random color on first use.
func (r *Registry) LabelColor(label string) color.RGBA {
	if c, ok := r.palette[label]; ok {
		r.colors[label] = c
		return c
	}
	if c, ok := r.colors[label]; ok {
		return c
	}
	c := color.RGBA{R: uint8(r.rng.IntN(256)), G: uint8(r.rng.IntN(256)), B: uint8(r.rng.IntN(256)), A: 255}
	r.colors[label] = c
	if r.logger != nil {
		r.logger.Debug("label color assigned", "label", label, "r", c.R, "g", c.G, "b", c.B)
	}
	return c
}

// SetLabelColor stores a base color, replacing any previous assignment.
func (r *Registry) SetLabelColor(label string, c color.RGBA) {
	c.A = 255
	r.colors[label] = c
}

// LabelColors returns a copy of the assigned base colors.
func (r *Registry) LabelColors() map[string]color.RGBA {
	out := make(map[string]color.RGBA, len(r.colors))
	for k, v := range r.colors {
		out[k] = v
	}
	return out
}

// NextID pre-increments and returns the label's counter; the first id is 1.
func (r *Registry) NextID(label string) int {
	r.counters[label]++
	return r.counters[label]
}

// Counter returns the last id issued for label (0 if none).
func (r *Registry) Counter(label string) int { return r.counters[label] }

// SetCounter restores a label counter. Values below 0 are ignored.
func (r *Registry) SetCounter(label string, last int) {
	if last < 0 {
		return
	}
	r.counters[label] = last
}

// Counters returns a copy of all label counters.
func (r *Registry) Counters() map[string]int {
	out := make(map[string]int, len(r.counters))
	for k, v := range r.counters {
		out[k] = v
	}
	return out
}

// NewBox normalizes rect, allocates the next id for label and derives its color.
// The box is not added to any frame.
func (r *Registry) NewBox(label string, rect image.Rectangle) *shape.Box {
	id := r.NextID(label)
	c := shape.CalculateColor(r.LabelColor(label), id)
	return shape.NewBox(rect.Canon(), label, id, c)
}

// Frames returns the indices of frames holding at least one shape, ascending.
func (r *Registry) Frames() []int {
	out := make([]int, 0, len(r.frames))
	for f, list := range r.frames {
		if len(list) > 0 {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return out
}

// Len returns the total number of shapes.
func (r *Registry) Len() int {
	n := 0
	for _, list := range r.frames {
		n += len(list)
	}
	return n
}

// Clear drops all frames. Counters and colors are kept.
func (r *Registry) Clear() {
	r.frames = make(map[int][]shape.Shape)
}

// Reset drops frames, counters and assigned colors.
func (r *Registry) Reset() {
	r.Clear()
	r.counters = make(map[string]int)
	r.colors = make(map[string]color.RGBA)
}
