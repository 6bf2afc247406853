package project

import (
	"encoding/json"
	"image/color"
	"log/slog"

	"github.com/soocke/frame-labeler/domain/registry"
	"github.com/soocke/frame-labeler/domain/shape"
)

// Document is the on-disk layout of a project file.
type Document struct {
	Frames      []FrameRecord     `json:"frames"`
	Counters    map[string]int    `json:"counters"`
	LabelColors map[string][3]int `json:"label_colors,omitempty"`
}

// FrameRecord groups the shapes of one frame. Shapes are kept raw so a single
// malformed record does not fail the whole document.
type FrameRecord struct {
	FrameIndex int               `json:"frame_index"`
	Shapes     []json.RawMessage `json:"shapes"`
}

// Encode snapshots reg into a document with frames in ascending order.
func Encode(reg *registry.Registry) (*Document, error) {
	doc := &Document{
		Frames:      []FrameRecord{},
		Counters:    reg.Counters(),
		LabelColors: map[string][3]int{},
	}
	for _, f := range reg.Frames() {
		fr := FrameRecord{FrameIndex: f}
		for _, s := range reg.Shapes(f) {
			raw, err := json.Marshal(s.ToRecord())
			if err != nil {
				return nil, err
			}
			fr.Shapes = append(fr.Shapes, raw)
		}
		doc.Frames = append(doc.Frames, fr)
	}
	for label, c := range reg.LabelColors() {
		doc.LabelColors[label] = [3]int{int(c.R), int(c.G), int(c.B)}
	}
	return doc, nil
}

// Decode replaces the contents of reg with doc. Records that are malformed or of
// an unknown kind are skipped; the number skipped is returned.
//
// Counters missing from the document are derived from the highest id per label,
// and a stored counter below a loaded id is raised so ids are never reissued.
func Decode(doc *Document, reg *registry.Registry, logger *slog.Logger) int {
	reg.Reset()
	if doc == nil {
		return 0
	}
	skipped := 0
	maxID := map[string]int{}
	for _, fr := range doc.Frames {
		if fr.FrameIndex < 0 {
			skipped += len(fr.Shapes)
			if logger != nil {
				logger.Warn("skipped frame with negative index", "frame", fr.FrameIndex, "shapes", len(fr.Shapes))
			}
			continue
		}
		for _, raw := range fr.Shapes {
			var rec shape.Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				skipped++
				if logger != nil {
					logger.Warn("skipped unreadable shape record", "frame", fr.FrameIndex, "error", err)
				}
				continue
			}
			s, err := shape.FromRecord(rec)
			if err != nil {
				skipped++
				if logger != nil {
					logger.Warn("skipped shape record", "frame", fr.FrameIndex, "type", string(rec.Type), "error", err)
				}
				continue
			}
			_ = reg.AddShape(fr.FrameIndex, s)
			if s.ID() > maxID[s.Label()] {
				maxID[s.Label()] = s.ID()
			}
		}
	}
	for label, last := range doc.Counters {
		reg.SetCounter(label, last)
	}
	for label, id := range maxID {
		if reg.Counter(label) < id {
			reg.SetCounter(label, id)
		}
	}
	for label, c := range doc.LabelColors {
		reg.SetLabelColor(label, color.RGBA{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: 255})
	}
	return skipped
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
