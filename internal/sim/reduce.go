package sim

import (
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/drag"
)

// Outcome reports what a single Reduce call did.
type Outcome struct {
	// Ticked is set when the controller advanced; Step is valid only then.
	Ticked bool
	Step   control.Step

	// Skipped is set for a Tick suppressed by an active drag.
	Skipped bool

	DragStarted bool
	DragEnded   bool
	Moved       bool

	// Err is set for events that could not apply, such as an unknown gain
	// name. The returned state is unchanged in that case.
	Err error
}

// Reduce applies one event and returns the next state. It is deterministic
// and has no side effects.
func Reduce(s State, ev Event) (State, Outcome) {
	var out Outcome

	switch ev := ev.(type) {
	case Tick:
		if s.Drag.Dragging() {
			s.Skipped++
			out.Skipped = true
			return s, out
		}
		g := s.Fields.Resolve()
		out.Step = control.Advance(s.Position, s.Target, g, s.Controller, s.Bounds, s.Options)
		out.Ticked = true
		s.Position, s.Controller = out.Step.Position, out.Step.State
		s.Ticks++

	case PointerDown:
		if s.Drag.PointerDown(ev.Button, ev.Pos, s.Position) {
			s.Controller.Reset()
			out.DragStarted = true
		}

	case PointerMove:
		if p, ok := s.Drag.PointerMove(ev.Pos); ok {
			s.Position = p
			out.Moved = true
		}

	case PointerUp:
		out.DragEnded = s.Drag.PointerUp(ev.Button)

	case SetGain:
		if err := s.Fields.SetText(ev.Name, ev.Text); err != nil {
			out.Err = err
		}

	case SetTarget:
		s.Target = ev.Pos

	case Restart:
		s.Position = s.initialPosition
		s.Target = s.initialTarget
		s.Fields = s.initialFields
		s.Controller.Reset()
		s.Drag = drag.New(s.EntityRadius)
		s.Ticks, s.Skipped = 0, 0
	}

	return s, out
}
