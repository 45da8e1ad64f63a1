package config

import (
	"errors"
	"fmt"

	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/geom"
)

// Scenario event kinds.
const (
	EventPointerDown = "pointer_down"
	EventPointerMove = "pointer_move"
	EventPointerUp   = "pointer_up"
	EventSetGain     = "set_gain"
	EventSetTarget   = "set_target"
)

var ErrInvalidScenario = errors.New("config: invalid scenario event")

// ScenarioEvent is a scripted input delivered just before tick At.
type ScenarioEvent struct {
	At    int     `yaml:"at"`
	Event string  `yaml:"event"`
	X     float64 `yaml:"x,omitempty"`
	Y     float64 `yaml:"y,omitempty"`
	Name  string  `yaml:"name,omitempty"`
	Text  string  `yaml:"text,omitempty"`
}

func (e ScenarioEvent) Point() geom.Point {
	return geom.Pt(e.X, e.Y)
}

func (e ScenarioEvent) Validate() error {
	if e.At < 0 {
		return fmt.Errorf("%w: at must not be negative, got %d", ErrInvalidScenario, e.At)
	}
	switch e.Event {
	case EventPointerDown, EventPointerMove, EventPointerUp, EventSetTarget:
		return nil
	case EventSetGain:
		if _, err := (control.Gains{}).Get(e.Name); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown event %q", ErrInvalidScenario, e.Event)
}
