package selection

import (
	"image"

	"github.com/soocke/frame-labeler/domain/shape"
)

// State enumerates the interaction states of the pointer over the canvas.
type State int

const (
	StateIdle State = iota
	StateHovering
	StateHoveringCorner
	StateMoving
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHovering:
		return "hovering"
	case StateHoveringCorner:
		return "hovering-corner"
	case StateMoving:
		return "moving"
	case StateResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Gesturing reports whether a shape is captured by a drag.
func (s State) Gesturing() bool { return s == StateMoving || s == StateResizing }

// Listener is called on each state change.
type Listener func(prev, next State)

// MachineContract is the interaction surface consumed by the editor.
type MachineContract interface {
	PointerDown(p image.Point, shapes []shape.Shape) bool
	PointerMove(p image.Point, shapes []shape.Shape)
	PointerUp() bool
	Cancel()
	State() State
	Active() shape.Shape
	Hovered() shape.Shape
	HoveredCorner() (int, bool)
	AddListener(l Listener)
}
