// Package metrics scores a controller run from its sample stream.
package metrics

import (
	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/sim"
)

const (
	NameIAE           = "iae"
	NameControlEffort = "control_effort"
	NameOvershoot     = "overshoot"
	NameSettlingTick  = "settling_tick"
)

// Names lists every built-in metric in report order.
var Names = []string{NameIAE, NameControlEffort, NameOvershoot, NameSettlingTick}

// Default returns fresh instances of every built-in metric.
func Default(cfg *config.Config) []sim.Metric {
	return []sim.Metric{
		NewIAE(),
		NewControlEffort(),
		NewOvershoot(),
		NewSettlingTick(cfg.SettleTolerance, cfg.SettleWindow),
	}
}

// IAE is the integrated absolute error, summed once per tick.
type IAE struct {
	sum float64
}

func NewIAE() *IAE { return &IAE{} }

func (m *IAE) Name() string { return NameIAE }

func (m *IAE) Observe(s sim.Sample) {
	m.sum += s.Error.Norm()
}

func (m *IAE) Value() float64 { return m.sum }
func (m *IAE) Reset()         { m.sum = 0 }

// ControlEffort is the mean magnitude of the control output over ticks where
// the controller actually ran.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return NameControlEffort }

func (c *ControlEffort) Observe(s sim.Sample) {
	if s.Dragging {
		return
	}
	c.sum += s.Control.Norm()
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
