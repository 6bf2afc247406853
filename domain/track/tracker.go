package track

import (
	"context"
	"image"
	"log/slog"
	"math"
	"sort"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/soocke/frame-labeler/domain/assist"
)

// Config tunes track lifecycle and association.
type Config struct {
	// MaxAge is how many consecutive frames a confirmed track may go unmatched.
	MaxAge int
	// MinHits is how many consecutive matches confirm a track.
	MinHits int
	// IoUThreshold is the minimum overlap between a prediction and a detection.
	IoUThreshold float64
}

// DefaultConfig returns MaxAge 30, MinHits 3, IoUThreshold 0.3.
func DefaultConfig() Config {
	return Config{MaxAge: 30, MinHits: 3, IoUThreshold: 0.3}
}

// Tracker is an IoU multi-object tracker over Kalman-predicted boxes.
type Tracker struct {
	cfg    Config
	tracks []*object
	logger *slog.Logger
}

// New returns a tracker. Non-positive settings fall back to DefaultConfig.
func New(cfg Config, logger *slog.Logger) *Tracker {
	def := DefaultConfig()
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = def.MaxAge
	}
	if cfg.MinHits <= 0 {
		cfg.MinHits = def.MinHits
	}
	if cfg.IoUThreshold <= 0 || cfg.IoUThreshold > 1 {
		cfg.IoUThreshold = def.IoUThreshold
	}
	return &Tracker{cfg: cfg, logger: logger}
}

// Len returns the number of live tracks, confirmed or not.
func (t *Tracker) Len() int { return len(t.tracks) }

// Reset drops every track.
func (t *Tracker) Reset() { t.tracks = nil }

type candidate struct {
	score float64
	track int
	det   int
}

// Update advances every track one frame, associates dets greedily by IoU and
// returns the confirmed tracks matched on this frame.
func (t *Tracker) Update(ctx context.Context, dets []assist.Detection, _ assist.Frame) ([]assist.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, o := range t.tracks {
		o.predict()
	}

	var cands []candidate
	for ti, o := range t.tracks {
		for di, d := range dets {
			if s := IoU(o.predicted, toRect(d.Box)); s >= t.cfg.IoUThreshold {
				cands = append(cands, candidate{score: s, track: ti, det: di})
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	trackUsed := make([]bool, len(t.tracks))
	detUsed := make([]bool, len(dets))
	for _, c := range cands {
		if trackUsed[c.track] || detUsed[c.det] {
			continue
		}
		trackUsed[c.track], detUsed[c.det] = true, true
		o := t.tracks[c.track]
		if err := o.update(dets[c.det]); err != nil {
			return nil, errors.Wrapf(err, "update track %s", o.id)
		}
		if !o.confirmed && o.hits >= t.cfg.MinHits {
			o.confirmed = true
			if t.logger != nil {
				t.logger.Debug("track confirmed", "id", o.id.String(), "label", o.label)
			}
		}
	}

	kept := t.tracks[:0]
	for i, o := range t.tracks {
		if !trackUsed[i] {
			o.missed++
			o.hits = 0
			if !o.confirmed || o.missed > t.cfg.MaxAge {
				if t.logger != nil {
					t.logger.Debug("track removed", "id", o.id.String(), "confirmed", o.confirmed, "missed", o.missed)
				}
				continue
			}
		}
		kept = append(kept, o)
	}
	t.tracks = kept

	for i, d := range dets {
		if detUsed[i] {
			continue
		}
		o := newObject(d)
		o.confirmed = o.hits >= t.cfg.MinHits
		t.tracks = append(t.tracks, o)
	}

	var out []assist.Track
	for _, o := range t.tracks {
		if o.confirmed && o.missed == 0 {
			out = append(out, assist.Track{ID: o.id.String(), Label: o.label, Box: o.current.image()})
		}
	}
	return out, nil
}

// object is one tracked box.
type object struct {
	id        uuid.UUID
	label     string
	kf        *kalman_filter.KalmanBBox
	current   rect
	predicted rect
	hits      int
	missed    int
	confirmed bool
}

func newObject(d assist.Detection) *object {
	r := toRect(d.Box)
	cx, cy := r.center()
	// Kalman filter props
	kf := kalman_filter.NewKalmanBBox(
		1.0, 0.0, 0.0, 0.0, 0.0,
		2.0, 0.1, 0.1, 0.1, 0.1,
		kalman_filter.WithStateBBox(cx, cy, r.W, r.H),
	)
	return &object{id: uuid.New(), label: d.Label, kf: kf, current: r, predicted: r, hits: 1}
}

func (o *object) predict() {
	o.kf.Predict()
	cx, cy, w, h := o.kf.GetState()
	o.predicted = rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

func (o *object) update(d assist.Detection) error {
	m := toRect(d.Box)
	cx, cy := m.center()
	if err := o.kf.Update(cx, cy, m.W, m.H); err != nil {
		return errors.Wrap(err, "kalman update")
	}
	cx, cy, w, h := o.kf.GetState()
	o.current = rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
	o.label = d.Label
	o.hits++
	o.missed = 0
	return nil
}

// rect is a float box in top-left/size form.
type rect struct{ X, Y, W, H float64 }

func toRect(r image.Rectangle) rect {
	r = r.Canon()
	return rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

func (r rect) center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

func (r rect) image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

// IoU returns intersection over union of two boxes.
func IoU(a, b rect) float64 {
	x1 := math.Max(a.X, b.X)
	y1 := math.Max(a.Y, b.Y)
	x2 := math.Min(a.X+a.W, b.X+b.W)
	y2 := math.Min(a.Y+a.H, b.Y+b.H)
	inter := math.Max(0, x2-x1) * math.Max(0, y2-y1)
	if inter == 0 {
		return 0
	}
	return inter / (a.W*a.H + b.W*b.H - inter)
}

var _ assist.Tracker = (*Tracker)(nil)
