package metrics

import (
	"github.com/asecurityteam/rolling"
	"github.com/san-kum/pidlab/internal/sim"
)

// SettlingTick reports the first tick of the final stretch in which the error
// norm stayed within tolerance for at least window consecutive ticks, or -1.
type SettlingTick struct {
	tolerance float64
	size      int
	window    *rolling.PointPolicy
	filled    int
	settled   int
}

func NewSettlingTick(tolerance float64, window int) *SettlingTick {
	if window < 1 {
		window = 1
	}
	return &SettlingTick{
		tolerance: tolerance,
		size:      window,
		window:    rolling.NewPointPolicy(rolling.NewWindow(window)),
		settled:   -1,
	}
}

func (m *SettlingTick) Name() string { return NameSettlingTick }

func (m *SettlingTick) Observe(s sim.Sample) {
	m.window.Append(s.Error.Norm())
	if m.filled < m.size {
		m.filled++
	}
	if m.filled < m.size {
		return
	}

	if m.window.Reduce(rolling.Max) > m.tolerance {
		m.settled = -1
		return
	}
	if m.settled < 0 {
		m.settled = s.Tick - m.size + 1
	}
}

func (m *SettlingTick) Value() float64 { return float64(m.settled) }

func (m *SettlingTick) Reset() {
	m.window = rolling.NewPointPolicy(rolling.NewWindow(m.size))
	m.filled = 0
	m.settled = -1
}
