package sim

import (
	"fmt"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/drag"
	"github.com/san-kum/pidlab/internal/geom"
)

// Event is an input to Reduce.
type Event interface {
	event()
}

// Tick advances the controller by one period.
type Tick struct{}

type PointerDown struct {
	Pos    geom.Point
	Button drag.Button
}

type PointerMove struct {
	Pos geom.Point
}

type PointerUp struct {
	Button drag.Button
}

// SetGain replaces the text of a gain field. The text is parsed on the
// next tick.
type SetGain struct {
	Name string
	Text string
}

type SetTarget struct {
	Pos geom.Point
}

// Restart returns to the initial position, target and gains with a cleared
// controller.
type Restart struct{}

func (Tick) event()        {}
func (PointerDown) event() {}
func (PointerMove) event() {}
func (PointerUp) event()   {}
func (SetGain) event()     {}
func (SetTarget) event()   {}
func (Restart) event()     {}

// FromScenario converts a scripted config event.
func FromScenario(e config.ScenarioEvent) (Event, error) {
	switch e.Event {
	case config.EventPointerDown:
		return PointerDown{Pos: e.Point(), Button: drag.ButtonPrimary}, nil
	case config.EventPointerMove:
		return PointerMove{Pos: e.Point()}, nil
	case config.EventPointerUp:
		return PointerUp{Button: drag.ButtonPrimary}, nil
	case config.EventSetGain:
		return SetGain{Name: e.Name, Text: e.Text}, nil
	case config.EventSetTarget:
		return SetTarget{Pos: e.Point()}, nil
	}
	return nil, fmt.Errorf("%w: unknown event %q", config.ErrInvalidScenario, e.Event)
}
