package annotation

import (
	"image"
	"slices"
)

// Source tells where an annotation came from.
type Source string

const (
	SourceManual  Source = "manual"
	SourceTracker Source = "tracker"
)

// Annotation is one labeled box on one frame of a video.
type Annotation struct {
	VideoID      string
	Frame        int
	Label        string
	Box          image.Rectangle
	Source       Source
	TrackID      string // empty when not tracked
	AnnotationID int    // 0 when unassigned
}

// Store is an append-only annotation list for a session.
type Store struct {
	items  []Annotation
	nextID int
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Add appends a, assigning the next sequential AnnotationID when a has none.
func (s *Store) Add(a Annotation) Annotation {
	a.Box = a.Box.Canon()
	if a.AnnotationID == 0 {
		s.nextID++
		a.AnnotationID = s.nextID
	} else if a.AnnotationID > s.nextID {
		s.nextID = a.AnnotationID
	}
	s.items = append(s.items, a)
	return a
}

// All returns a copy of every annotation in insertion order.
func (s *Store) All() []Annotation { return slices.Clone(s.items) }

// Len returns the number of annotations.
func (s *Store) Len() int { return len(s.items) }

// ByFrame returns the annotations of frame.
func (s *Store) ByFrame(frame int) []Annotation {
	return s.filter(func(a Annotation) bool { return a.Frame == frame })
}

// BySource returns the annotations from src.
func (s *Store) BySource(src Source) []Annotation {
	return s.filter(func(a Annotation) bool { return a.Source == src })
}

// RemoveFrameSource drops annotations of frame coming from src and returns how
// many were removed.
func (s *Store) RemoveFrameSource(frame int, src Source) int {
	before := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(a Annotation) bool { return a.Frame == frame && a.Source == src })
	return before - len(s.items)
}

func (s *Store) filter(keep func(Annotation) bool) []Annotation {
	var out []Annotation
	for _, a := range s.items {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
