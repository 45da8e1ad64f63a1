package sim

import (
	"time"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/drag"
	"github.com/san-kum/pidlab/internal/geom"
	"github.com/san-kum/pidlab/internal/tuning"
)

// State is everything one simulation owns. It is a value type: Reduce takes
// a State and returns the next one, and copies never share mutable data.
type State struct {
	Position     geom.Point
	Target       geom.Point
	Bounds       geom.Rect
	EntityRadius float64
	TargetRadius float64
	Fields       tuning.Fields
	Controller   control.State
	Drag         drag.Override
	Options      control.Options

	// Ticks counts controller advances; Skipped counts ticks suppressed
	// while dragging.
	Ticks   int
	Skipped int

	initialPosition geom.Point
	initialTarget   geom.Point
	initialFields   tuning.Fields
}

// NewState builds the initial simulation state from a validated config.
func NewState(cfg *config.Config) (State, error) {
	opts, err := cfg.ControlOptions()
	if err != nil {
		return State{}, err
	}
	fields := tuning.NewFields(cfg.Gains)
	return State{
		Position:        cfg.Start,
		Target:          cfg.Target,
		Bounds:          cfg.Bounds(),
		EntityRadius:    cfg.EntityRadius,
		TargetRadius:    cfg.TargetRadius,
		Fields:          fields,
		Drag:            drag.New(cfg.EntityRadius),
		Options:         opts,
		initialPosition: cfg.Start,
		initialTarget:   cfg.Target,
		initialFields:   fields,
	}, nil
}

// Gains returns the gains that were in effect on the last tick.
func (s State) Gains() control.Gains {
	return s.Fields.Gains()
}

func (s State) Error() geom.Point {
	return s.Target.Sub(s.Position)
}

func (s State) Dragging() bool {
	return s.Drag.Dragging()
}

// Sample is one row of a trajectory.
type Sample struct {
	Tick     int           `json:"tick"`
	Time     float64       `json:"time"`
	Position geom.Point    `json:"position"`
	Target   geom.Point    `json:"target"`
	Error    geom.Point    `json:"error"`
	Control  geom.Point    `json:"control"`
	Integral geom.Point    `json:"integral"`
	Gains    control.Gains `json:"gains"`
	Dragging bool          `json:"dragging"`
}

// NewSample describes the state after the n-th tick event.
func NewSample(n int, period time.Duration, s State, out Outcome) Sample {
	smp := Sample{
		Tick:     n,
		Time:     float64(n) * period.Seconds(),
		Position: s.Position,
		Target:   s.Target,
		Error:    s.Error(),
		Integral: geom.Pt(s.Controller.X.Integral, s.Controller.Y.Integral),
		Gains:    s.Gains(),
		Dragging: s.Dragging(),
	}
	if out.Ticked {
		smp.Control = out.Step.Control()
	}
	return smp
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnTick(s Sample) { f(s) }

type Result struct {
	Samples []Sample
	Final   State
	Metrics map[string]float64
	// Undelivered counts scenario events scheduled past the end of the run.
	Undelivered int
	// MissedPresses counts scripted pointer-downs that did not start a drag.
	MissedPresses int
}
