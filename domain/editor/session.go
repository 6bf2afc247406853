package editor

import (
	"image"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/soocke/frame-labeler/domain/registry"
	"github.com/soocke/frame-labeler/domain/selection"
	"github.com/soocke/frame-labeler/domain/shape"
)

// ErrNoLabel is returned when a shape would be created without a current label.
var ErrNoLabel = errors.New("no label selected")

// Persister writes the whole registry to durable storage.
type Persister interface {
	Save(reg *registry.Registry) error
}

// Session is the editing context for one open project: registry, selection,
// the in-progress draft and the current frame and label.
type Session struct {
	reg       *registry.Registry
	sel       *selection.Machine
	persister Persister
	logger    *slog.Logger

	frame int
	label string

	drafting   bool
	draftStart image.Point
	draftEnd   image.Point
}

// NewSession binds the registry, selection machine and persister. persister may
// be nil, in which case edits stay in memory.
func NewSession(reg *registry.Registry, sel *selection.Machine, persister Persister, logger *slog.Logger) *Session {
	return &Session{reg: reg, sel: sel, persister: persister, logger: logger}
}

func (s *Session) Registry() *registry.Registry   { return s.reg }
func (s *Session) Selection() *selection.Machine { return s.sel }
func (s *Session) Frame() int                    { return s.frame }
func (s *Session) Label() string                 { return s.label }

// Shapes returns the current frame's shapes.
func (s *Session) Shapes() []shape.Shape { return s.reg.Shapes(s.frame) }

// SetFrame switches the current frame, dropping any gesture in progress.
func (s *Session) SetFrame(frame int) {
	if frame < 0 {
		frame = 0
	}
	if frame == s.frame {
		return
	}
	s.Cancel()
	s.frame = frame
}

// SetLabel sets the label used for new shapes.
func (s *Session) SetLabel(label string) { s.label = label }

// Cancel drops the draft and any captured shape without persisting.
func (s *Session) Cancel() {
	s.drafting = false
	s.sel.Cancel()
}

// Draft returns the normalized in-progress rectangle, if a draft is active.
func (s *Session) Draft() (image.Rectangle, bool) {
	if !s.drafting {
		return image.Rectangle{}, false
	}
	return image.Rectangle{Min: s.draftStart, Max: s.draftEnd}.Canon(), true
}

// PointerDown starts a move or resize when p hits a shape, otherwise a draft.
func (s *Session) PointerDown(p image.Point) {
	if s.drafting {
		return
	}
	if s.sel.PointerDown(p, s.reg.Shapes(s.frame)) {
		return
	}
	if s.label == "" {
		return
	}
	s.drafting = true
	s.draftStart, s.draftEnd = p, p
}

// PointerMove extends the draft, drags the captured shape or updates hover.
func (s *Session) PointerMove(p image.Point) {
	if s.drafting {
		s.draftEnd = p
		return
	}
	s.sel.PointerMove(p, s.reg.Shapes(s.frame))
}

// PointerUp completes the current gesture and persists when anything changed.
// It reports whether the registry changed.
func (s *Session) PointerUp(p image.Point) (bool, error) {
	if s.drafting {
		s.drafting = false
		s.draftEnd = p
		rect := image.Rectangle{Min: s.draftStart, Max: s.draftEnd}.Canon()
		if rect.Dx() == 0 || rect.Dy() == 0 {
			if s.logger != nil {
				s.logger.Debug("discarded empty draft", "frame", s.frame)
			}
			return false, nil
		}
		if s.label == "" {
			return false, ErrNoLabel
		}
		b := s.reg.NewBox(s.label, rect)
		if err := s.reg.AddShape(s.frame, b); err != nil {
			return false, err
		}
		if s.logger != nil {
			s.logger.Info("shape created", "frame", s.frame, "label", b.Label(), "id", b.ID(), "rect", rect.String())
		}
		return true, s.persist()
	}
	if !s.sel.PointerUp() {
		return false, nil
	}
	return true, s.persist()
}

// DeleteHovered removes the shape under the pointer on the current frame.
func (s *Session) DeleteHovered() (bool, error) {
	if s.sel.State().Gesturing() {
		return false, nil
	}
	target := s.sel.Hovered()
	if target == nil || !s.reg.DeleteShape(s.frame, target) {
		return false, nil
	}
	s.sel.Forget(target)
	if s.logger != nil {
		s.logger.Info("shape deleted", "frame", s.frame, "label", target.Label(), "id", target.ID())
	}
	return true, s.persist()
}

// AddShape appends an externally produced shape (for example an accepted track)
// to frame and persists.
func (s *Session) AddShape(frame int, label string, rect image.Rectangle) (shape.Shape, error) {
	if label == "" {
		return nil, ErrNoLabel
	}
	b := s.reg.NewBox(label, rect)
	if err := s.reg.AddShape(frame, b); err != nil {
		return nil, err
	}
	return b, s.persist()
}

// Save persists the registry on demand.
func (s *Session) Save() error { return s.persist() }

func (s *Session) persist() error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(s.reg); err != nil {
		if s.logger != nil {
			s.logger.Error("persist failed", "error", err)
		}
		return err
	}
	return nil
}
