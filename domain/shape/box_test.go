package shape

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func newTestBox() *Box {
	return NewBox(image.Rect(100, 100, 200, 160), "car", 1, color.RGBA{R: 0, G: 0, B: 255})
}

func TestBox_NewNormalizes(t *testing.T) {
	b := NewBox(image.Rect(50, 40, 10, 20), "person", 1, color.RGBA{})
	r := b.Bounds()
	if r.Min != (image.Point{10, 20}) || r.Max != (image.Point{50, 40}) {
		t.Fatalf("expected normalized rect, got %v", r)
	}
}

func TestBox_IsNearBorder_EdgeMidpoints(t *testing.T) {
	b := newTestBox()
	tol := 5
	mids := []image.Point{
		{100, 130}, {200, 130}, // left, right
		{150, 100}, {150, 160}, // top, bottom
	}
	offsets := []image.Point{{-tol, 0}, {tol, 0}, {0, -tol}, {0, tol}}
	for i, m := range mids {
		var off image.Point
		if i < 2 {
			off = offsets[0]
		} else {
			off = offsets[2]
		}
		for _, p := range []image.Point{m.Add(off), m.Sub(off), m} {
			if !b.IsNearBorder(p, tol) {
				t.Fatalf("expected border hit at %v (edge midpoint %v)", p, m)
			}
		}
	}
	if b.IsNearBorder(image.Pt(150, 130), tol) {
		t.Fatalf("center must not count as border")
	}
}

func TestBox_IsNearBorder_OutsidePerpendicularBounds(t *testing.T) {
	b := newTestBox()
	// near the left edge line but far below the box
	if b.IsNearBorder(image.Pt(100, 300), 5) {
		t.Fatalf("point outside vertical extent must not hit left border")
	}
	// beyond tolerance
	if b.IsNearBorder(image.Pt(94, 130), 5) {
		t.Fatalf("point 6px outside must not hit")
	}
}

func TestBox_CornersOrderAfterMutations(t *testing.T) {
	b := newTestBox()
	b.Translate(image.Pt(-30, 12))
	b.ResizeCorner(CornerBottomRight, image.Pt(40, 5), 5)
	b.ResizeCorner(CornerTopLeft, image.Pt(-7, -9), 5)
	c := b.Corners()
	if len(c) != 4 {
		t.Fatalf("expected 4 corners")
	}
	if !(c[0].X == c[2].X && c[1].X == c[3].X && c[0].Y == c[1].Y && c[2].Y == c[3].Y) {
		t.Fatalf("corners not axis-aligned TL,TR,BL,BR: %v", c)
	}
	if !(c[0].X < c[1].X && c[0].Y < c[2].Y) {
		t.Fatalf("corner order wrong: %v", c)
	}
}

func TestBox_NearestCorner(t *testing.T) {
	b := newTestBox()
	idx, ok := b.NearestCorner(image.Pt(202, 158), 5)
	if !ok || idx != CornerBottomRight {
		t.Fatalf("expected bottom-right, got %d ok=%v", idx, ok)
	}
	// Manhattan distance 6 is outside tolerance 5
	if _, ok := b.NearestCorner(image.Pt(103, 103), 5); ok {
		t.Fatalf("expected no corner for Manhattan distance 6")
	}
	if _, ok := b.NearestCorner(image.Pt(150, 130), 5); ok {
		t.Fatalf("center is not near a corner")
	}
}

func TestBox_NearestCorner_TieBreakFirstIndex(t *testing.T) {
	tiny := NewBox(image.Rect(10, 10, 12, 12), "car", 1, color.RGBA{})
	idx, ok := tiny.NearestCorner(image.Pt(11, 11), 5)
	if !ok || idx != CornerTopLeft {
		t.Fatalf("expected earliest corner 0 on tie, got %d", idx)
	}
}

func TestBox_TranslateRoundTrip(t *testing.T) {
	b := newTestBox()
	before := b.Bounds()
	d := image.Pt(17, -23)
	b.Translate(d)
	if b.Bounds().Dx() != before.Dx() || b.Bounds().Dy() != before.Dy() {
		t.Fatalf("translate changed size")
	}
	b.Translate(d.Mul(-1))
	if b.Bounds() != before {
		t.Fatalf("expected %v after d and -d, got %v", before, b.Bounds())
	}
}

func TestBox_ResizeCorner_MovesOnlyThatCorner(t *testing.T) {
	b := newTestBox()
	b.ResizeCorner(CornerTopLeft, image.Pt(10, 5), 5)
	r := b.Bounds()
	if r.Min != (image.Point{110, 105}) || r.Max != (image.Point{200, 160}) {
		t.Fatalf("unexpected rect after top-left resize: %v", r)
	}
	b.ResizeCorner(CornerTopRight, image.Pt(5, -5), 5)
	r = b.Bounds()
	if r.Min != (image.Point{110, 100}) || r.Max != (image.Point{205, 160}) {
		t.Fatalf("unexpected rect after top-right resize: %v", r)
	}
	b.ResizeCorner(CornerBottomLeft, image.Pt(-10, 10), 5)
	r = b.Bounds()
	if r.Min != (image.Point{100, 100}) || r.Max != (image.Point{205, 170}) {
		t.Fatalf("unexpected rect after bottom-left resize: %v", r)
	}
}

func TestBox_ResizeCorner_ClampsToMinimum(t *testing.T) {
	b := newTestBox()
	// would shrink width to -20
	b.ResizeCorner(CornerBottomRight, image.Pt(-120, 0), 5)
	r := b.Bounds()
	if r.Dx() != 5 {
		t.Fatalf("expected width clamped to 5, got %d", r.Dx())
	}
	if r.Min.X != 100 || r.Max.X != 105 {
		t.Fatalf("expected fixed left edge and no flip, got %v", r)
	}
	b.ResizeCorner(CornerTopLeft, image.Pt(0, 500), 5)
	r = b.Bounds()
	if r.Dy() != 5 || r.Max.Y != 160 {
		t.Fatalf("expected height clamped to 5 against fixed bottom, got %v", r)
	}
}

func TestBox_ResizeCorner_InvalidIndexNoop(t *testing.T) {
	b := newTestBox()
	before := b.Bounds()
	b.ResizeCorner(7, image.Pt(10, 10), 5)
	if b.Bounds() != before {
		t.Fatalf("invalid corner index must not change geometry")
	}
}

func TestRecord_BoxRoundTrip(t *testing.T) {
	b := NewBox(image.Rect(3, 4, 30, 40), "truck", 7, color.RGBA{R: 210, G: 30, B: 30})
	s, err := FromRecord(b.ToRecord())
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	if s.Label() != "truck" || s.ID() != 7 || s.Bounds() != b.Bounds() || s.Color() != b.Color() {
		t.Fatalf("round trip mismatch: %v vs %v", s, b)
	}
	if w := s.Bounds().Dx(); w != 27 {
		t.Fatalf("width should be x2-x1=27, got %d", w)
	}
}

func TestFromRecord_Errors(t *testing.T) {
	if _, err := FromRecord(Record{Type: KindCircle, Label: "x", ID: 1}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := FromRecord(Record{Type: KindBox, Label: "", ID: 1}); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for empty label, got %v", err)
	}
	if _, err := FromRecord(Record{Type: KindBox, Label: "car", ID: 1, X1: 10, X2: 5}); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for inverted bounds, got %v", err)
	}
}
