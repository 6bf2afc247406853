package selection

import (
	"image"
	"log/slog"

	"github.com/soocke/frame-labeler/domain/shape"
)

const (
	DefaultTolerance = 5
	DefaultMinSize   = 5
)

// Machine tracks hover, move and resize of a single shape at a time.
// It runs on the UI thread; calls must not overlap.
type Machine struct {
	state           State
	logger          *slog.Logger
	borderTolerance int
	cornerTolerance int
	minSize         int

	hovered shape.Shape
	corner  int
	active  shape.Shape
	last    image.Point

	listeners []Listener
}

// Settings holds the hit-testing tolerances and the resize floor.
type Settings struct {
	BorderTolerance int
	CornerTolerance int
	MinSize         int
}

// NewMachine returns an idle machine. Zero settings fall back to the defaults.
func NewMachine(logger *slog.Logger, s Settings) *Machine {
	if s.BorderTolerance <= 0 {
		s.BorderTolerance = DefaultTolerance
	}
	if s.CornerTolerance <= 0 {
		s.CornerTolerance = DefaultTolerance
	}
	if s.MinSize <= 0 {
		s.MinSize = DefaultMinSize
	}
	return &Machine{
		state:           StateIdle,
		logger:          logger,
		borderTolerance: s.BorderTolerance,
		cornerTolerance: s.CornerTolerance,
		minSize:         s.MinSize,
		corner:          -1,
	}
}

// PointerDown starts a resize when a corner is hovered or a move when p is on a
// border. It reports whether a gesture began; false means the press belongs to
// the caller (typically a new-shape draft).
func (m *Machine) PointerDown(p image.Point, shapes []shape.Shape) bool {
	if m.state.Gesturing() {
		return false
	}
	m.updateHover(p, shapes)
	switch m.state {
	case StateHoveringCorner:
		m.active = m.hovered
		m.last = p
		m.transition(StateResizing)
		return true
	case StateHovering:
		m.active = m.hovered
		m.last = p
		m.transition(StateMoving)
		return true
	}
	return false
}

// PointerMove drags the captured shape or recomputes hover.
func (m *Machine) PointerMove(p image.Point, shapes []shape.Shape) {
	switch m.state {
	case StateMoving:
		m.active.Translate(p.Sub(m.last))
		m.last = p
	case StateResizing:
		m.active.ResizeCorner(m.corner, p.Sub(m.last), m.minSize)
		m.last = p
	default:
		m.updateHover(p, shapes)
	}
}

// PointerUp releases the captured shape and drops hover; the next pointer move
// recomputes it. It reports whether a move or resize just completed so the
// caller can persist.
func (m *Machine) PointerUp() bool {
	if !m.state.Gesturing() {
		return false
	}
	m.active = nil
	m.hovered = nil
	m.corner = -1
	m.transition(StateIdle)
	return true
}

// Cancel drops capture and hover.
func (m *Machine) Cancel() {
	m.active = nil
	m.hovered = nil
	m.corner = -1
	m.transition(StateIdle)
}

// Forget clears any reference to s, used when s is deleted.
func (m *Machine) Forget(s shape.Shape) {
	if s == nil {
		return
	}
	if m.active == s || m.hovered == s {
		m.Cancel()
	}
}

func (m *Machine) State() State        { return m.state }
func (m *Machine) Active() shape.Shape  { return m.active }
func (m *Machine) Hovered() shape.Shape { return m.hovered }
func (m *Machine) MinSize() int         { return m.minSize }

// HoveredCorner returns the corner index under the pointer, if any.
func (m *Machine) HoveredCorner() (int, bool) {
	if m.state == StateHoveringCorner || m.state == StateResizing {
		return m.corner, true
	}
	return -1, false
}

// IsActive reports whether s is the captured shape.
func (m *Machine) IsActive(s shape.Shape) bool { return s != nil && m.active == s }

// IsHovered reports whether s is under the pointer.
func (m *Machine) IsHovered(s shape.Shape) bool { return s != nil && m.hovered == s }

// AddListener registers l for state changes.
func (m *Machine) AddListener(l Listener) {
	if l != nil {
		m.listeners = append(m.listeners, l)
	}
}

// updateHover picks the first shape with a corner near p, else the first shape
// whose border is near p.
func (m *Machine) updateHover(p image.Point, shapes []shape.Shape) {
	for _, s := range shapes {
		if idx, ok := s.NearestCorner(p, m.cornerTolerance); ok {
			m.hovered, m.corner = s, idx
			m.transition(StateHoveringCorner)
			return
		}
	}
	for _, s := range shapes {
		if s.IsNearBorder(p, m.borderTolerance) {
			m.hovered, m.corner = s, -1
			m.transition(StateHovering)
			return
		}
	}
	m.hovered, m.corner = nil, -1
	m.transition(StateIdle)
}

func (m *Machine) transition(next State) {
	prev := m.state
	if prev == next {
		return
	}
	m.state = next
	if m.logger != nil {
		m.logger.Debug("selection state transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range m.listeners {
		l(prev, next)
	}
}

var _ MachineContract = (*Machine)(nil)
