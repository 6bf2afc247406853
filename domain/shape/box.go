package shape

import (
	"fmt"
	"image"
	"image/color"
)

// Box is an axis-aligned rectangle shape. Min is (x1,y1) and Max is (x2,y2).
type Box struct {
	label string
	id    int
	color color.RGBA
	rect  image.Rectangle
}

// NewBox returns a box over the normalized rectangle r.
func NewBox(r image.Rectangle, label string, id int, c color.RGBA) *Box {
	c.A = 255
	return &Box{label: label, id: id, color: c, rect: r.Canon()}
}

func (b *Box) Kind() Kind        { return KindBox }
func (b *Box) Label() string     { return b.label }
func (b *Box) ID() int           { return b.id }
func (b *Box) Color() color.RGBA { return b.color }

// Bounds returns the normalized rectangle.
func (b *Box) Bounds() image.Rectangle { return b.rect.Canon() }

func (b *Box) String() string {
	r := b.Bounds()
	return fmt.Sprintf("%s #%d (%d,%d)-(%d,%d)", b.label, b.id, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// IsNearBorder reports whether p lies within tolerance of a left/right edge while
// vertically inside, or of a top/bottom edge while horizontally inside.
func (b *Box) IsNearBorder(p image.Point, tolerance int) bool {
	r := b.Bounds()
	nearLeft := abs(p.X-r.Min.X) <= tolerance
	nearRight := abs(p.X-r.Max.X) <= tolerance
	nearTop := abs(p.Y-r.Min.Y) <= tolerance
	nearBottom := abs(p.Y-r.Max.Y) <= tolerance
	insideX := r.Min.X <= p.X && p.X <= r.Max.X
	insideY := r.Min.Y <= p.Y && p.Y <= r.Max.Y
	return ((nearLeft || nearRight) && insideY) || ((nearTop || nearBottom) && insideX)
}

// Corners returns top-left, top-right, bottom-left, bottom-right.
func (b *Box) Corners() [4]image.Point {
	r := b.Bounds()
	return [4]image.Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Min.X, Y: r.Max.Y},
		{X: r.Max.X, Y: r.Max.Y},
	}
}

// NearestCorner returns the first corner within tolerance (Manhattan distance) of p.
func (b *Box) NearestCorner(p image.Point, tolerance int) (int, bool) {
	for i, c := range b.Corners() {
		if abs(p.X-c.X)+abs(p.Y-c.Y) <= tolerance {
			return i, true
		}
	}
	return -1, false
}

// Translate shifts both corners by delta.
func (b *Box) Translate(delta image.Point) {
	b.rect = b.rect.Add(delta)
}

// ResizeCorner moves only the corner at index by delta, keeping the opposite corner
// fixed. Width and height never drop below minSize; the moving edge sticks instead.
func (b *Box) ResizeCorner(index int, delta image.Point, minSize int) {
	if minSize < 0 {
		minSize = 0
	}
	r := b.rect.Canon()
	moveLeft := index == CornerTopLeft || index == CornerBottomLeft
	moveTop := index == CornerTopLeft || index == CornerTopRight
	switch index {
	case CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight:
	default:
		return
	}
	if moveLeft {
		r.Min.X = min(r.Min.X+delta.X, r.Max.X-minSize)
	} else {
		r.Max.X = max(r.Max.X+delta.X, r.Min.X+minSize)
	}
	if moveTop {
		r.Min.Y = min(r.Min.Y+delta.Y, r.Max.Y-minSize)
	} else {
		r.Max.Y = max(r.Max.Y+delta.Y, r.Min.Y+minSize)
	}
	b.rect = r
}

// ToRecord serializes the box with normalized bounds.
func (b *Box) ToRecord() Record {
	r := b.Bounds()
	return Record{
		Type:  KindBox,
		Label: b.label,
		ID:    b.id,
		Color: [3]int{int(b.color.R), int(b.color.G), int(b.color.B)},
		X1:    r.Min.X,
		Y1:    r.Min.Y,
		X2:    r.Max.X,
		Y2:    r.Max.Y,
	}
}

func boxFromRecord(r Record) (*Box, error) {
	if r.Label == "" || r.ID < 1 {
		return nil, ErrInvalidRecord
	}
	if r.X2 < r.X1 || r.Y2 < r.Y1 {
		return nil, ErrInvalidRecord
	}
	c := color.RGBA{R: channel(r.Color[0]), G: channel(r.Color[1]), B: channel(r.Color[2]), A: 255}
	return NewBox(image.Rect(r.X1, r.Y1, r.X2, r.Y2), r.Label, r.ID, c), nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ Shape = (*Box)(nil)
