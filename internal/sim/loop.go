package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/geom"
	"github.com/san-kum/pidlab/internal/tuning"
)

// ErrLoopStopped is returned by Send once the loop has exited.
var ErrLoopStopped = errors.New("sim: loop stopped")

const eventQueueSize = 64

// Snapshot is an immutable copy of the loop state, safe to share between
// goroutines.
type Snapshot struct {
	Ticks      int           `json:"ticks"`
	Skipped    int           `json:"skipped"`
	Position   geom.Point    `json:"position"`
	Target     geom.Point    `json:"target"`
	Error      geom.Point    `json:"error"`
	Gains      control.Gains `json:"gains"`
	Fields     tuning.Fields `json:"fields"`
	Controller control.State `json:"controller"`
	Dragging   bool          `json:"dragging"`
	LastStep   control.Step  `json:"last_step"`
}

func snapshotOf(s State, last control.Step) *Snapshot {
	return &Snapshot{
		Ticks:      s.Ticks,
		Skipped:    s.Skipped,
		Position:   s.Position,
		Target:     s.Target,
		Error:      s.Error(),
		Gains:      s.Gains(),
		Fields:     s.Fields,
		Controller: s.Controller,
		Dragging:   s.Dragging(),
		LastStep:   last,
	}
}

// Loop runs the reducer in real time. The state is owned by the goroutine
// calling Run; other goroutines only Send events and read snapshots.
type Loop struct {
	state     State
	period    time.Duration
	events    chan Event
	done      chan struct{}
	snapshot  atomic.Pointer[Snapshot]
	observers []Observer
	lastStep  control.Step
	n         int
}

func NewLoop(initial State, period time.Duration) *Loop {
	l := &Loop{
		state:  initial,
		period: period,
		events: make(chan Event, eventQueueSize),
		done:   make(chan struct{}),
	}
	l.snapshot.Store(snapshotOf(initial, control.Step{}))
	return l
}

// AddObserver must be called before Run.
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

// Send queues an event for the next loop iteration.
func (l *Loop) Send(ctx context.Context, ev Event) error {
	select {
	case l.events <- ev:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) Snapshot() Snapshot {
	return *l.snapshot.Load()
}

// Run ticks every period until ctx is cancelled. Queued events are applied
// between ticks in arrival order.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-l.events:
			l.apply(ev)
		case <-ticker.C:
			l.apply(Tick{})
		}
	}
}

func (l *Loop) apply(ev Event) {
	var out Outcome
	l.state, out = Reduce(l.state, ev)
	if out.Ticked {
		l.lastStep = out.Step
	}
	if _, ok := ev.(Restart); ok {
		l.lastStep = control.Step{}
		l.n = 0
	}
	if _, ok := ev.(Tick); ok {
		l.n++
		smp := NewSample(l.n, l.period, l.state, out)
		for _, obs := range l.observers {
			obs.OnTick(smp)
		}
	}
	l.snapshot.Store(snapshotOf(l.state, l.lastStep))
}
