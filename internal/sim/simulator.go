package sim

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/san-kum/pidlab/internal/config"
)

// Simulator runs the reducer headless, as fast as possible, for a fixed
// number of ticks.
type Simulator struct {
	initial   State
	period    time.Duration
	scenario  []config.ScenarioEvent
	metrics   []Metric
	observers []Observer
}

func New(initial State, period time.Duration) *Simulator {
	return &Simulator{
		initial:   initial,
		period:    period,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

// FromConfig builds a simulator with the config's initial state and scenario.
func FromConfig(cfg *config.Config) (*Simulator, error) {
	st, err := NewState(cfg)
	if err != nil {
		return nil, err
	}
	s := New(st, cfg.TickPeriod())
	if err := s.SetScenario(cfg.Scenario); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetScenario schedules scripted events. Events sharing a tick keep their
// order.
func (s *Simulator) SetScenario(events []config.ScenarioEvent) error {
	for i, ev := range events {
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("scenario[%d]: %w", i, err)
		}
	}
	sorted := append([]config.ScenarioEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	s.scenario = sorted
	return nil
}

// Run delivers scenario events scheduled for tick i just before tick i, for
// i in [0, ticks). The result holds ticks+1 samples, the first describing
// the initial state.
func (s *Simulator) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks < 0 {
		return nil, fmt.Errorf("ticks must not be negative, got %d", ticks)
	}

	result := &Result{
		Samples: make([]Sample, 0, ticks+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	state := s.initial
	result.Samples = append(result.Samples, NewSample(0, s.period, state, Outcome{}))

	next := 0
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			result.Final = state
			return result, ctx.Err()
		default:
		}

		for next < len(s.scenario) && s.scenario[next].At <= i {
			ev, err := FromScenario(s.scenario[next])
			if err != nil {
				return result, err
			}
			var out Outcome
			state, out = Reduce(state, ev)
			if _, ok := ev.(PointerDown); ok && !out.DragStarted {
				result.MissedPresses++
			}
			next++
		}

		var out Outcome
		state, out = Reduce(state, Tick{})

		smp := NewSample(i+1, s.period, state, out)
		for _, m := range s.metrics {
			m.Observe(smp)
		}
		for _, obs := range s.observers {
			obs.OnTick(smp)
		}
		result.Samples = append(result.Samples, smp)
	}

	result.Final = state
	result.Undelivered = len(s.scenario) - next
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
