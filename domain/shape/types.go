package shape

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// Kind is the on-disk discriminator of a shape variant.
type Kind string

const (
	KindBox Kind = "box"
	// Reserved for future variants; records of these kinds are skipped on load.
	KindCircle  Kind = "circle"
	KindPolygon Kind = "polygon"
)

// Corner indices as returned by Corners and NearestCorner.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

var (
	// ErrUnknownKind is returned by FromRecord for discriminators without an implementation.
	ErrUnknownKind = errors.New("unknown shape kind")
	// ErrInvalidRecord is returned by FromRecord for records that cannot form a valid shape.
	ErrInvalidRecord = errors.New("invalid shape record")
)

// Shape is a labeled geometric region. Geometry is owned by the shape and only
// changes through Translate and ResizeCorner.
type Shape interface {
	Kind() Kind
	Label() string
	ID() int
	Color() color.RGBA
	Bounds() image.Rectangle

	// Hit testing
	IsNearBorder(p image.Point, tolerance int) bool
	Corners() [4]image.Point
	NearestCorner(p image.Point, tolerance int) (int, bool)

	// Mutation
	Translate(delta image.Point)
	ResizeCorner(index int, delta image.Point, minSize int)

	ToRecord() Record
}

// Record is the serialized form of a shape inside a project file.
type Record struct {
	Type  Kind   `json:"type"`
	Label string `json:"label"`
	ID    int    `json:"id"`
	Color [3]int `json:"color"`
	X1    int    `json:"x1"`
	Y1    int    `json:"y1"`
	X2    int    `json:"x2"`
	Y2    int    `json:"y2"`
}

// FromRecord reconstructs a shape from its record. Unknown kinds return
// ErrUnknownKind so callers can skip them and keep loading.
func FromRecord(r Record) (Shape, error) {
	switch r.Type {
	case KindBox:
		return boxFromRecord(r)
	default:
		return nil, ErrUnknownKind
	}
}

func channel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
