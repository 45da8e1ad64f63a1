// Package drag decides when the user is manually holding the controlled point.
//
// An [Override] is a two-state machine. A primary-button press within the
// hit radius of the current position starts a drag; while dragging, pointer
// moves set the position directly and controller ticks must be skipped; the
// primary-button release ends the drag.
package drag

import (
	"fmt"

	"github.com/san-kum/pidlab/internal/geom"
)

type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

type Override struct {
	Radius float64
	phase  Phase
}

func New(radius float64) Override {
	return Override{Radius: radius}
}

func (o Override) Phase() Phase    { return o.phase }
func (o Override) Dragging() bool { return o.phase == Dragging }

// Hit reports whether pointer lies within the hit radius of position.
func (o Override) Hit(pointer, position geom.Point) bool {
	return pointer.Distance(position) <= o.Radius
}

// PointerDown starts a drag when the primary button is pressed on the
// controlled point. It returns true only on the Idle to Dragging transition;
// the caller resets the controller state exactly then.
func (o *Override) PointerDown(b Button, pointer, position geom.Point) bool {
	if o.phase != Idle || b != ButtonPrimary {
		return false
	}
	if !o.Hit(pointer, position) {
		return false
	}
	o.phase = Dragging
	return true
}

// PointerMove returns the position the controlled point should jump to, or
// false when no drag is in progress.
func (o *Override) PointerMove(pointer geom.Point) (geom.Point, bool) {
	if o.phase != Dragging {
		return geom.Point{}, false
	}
	return pointer, true
}

// PointerUp ends a drag on primary-button release. It returns true when a
// drag actually ended.
func (o *Override) PointerUp(b Button) bool {
	if o.phase != Dragging || b != ButtonPrimary {
		return false
	}
	o.phase = Idle
	return true
}
