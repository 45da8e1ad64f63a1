package metrics

import (
	"context"
	"testing"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/geom"
	"github.com/san-kum/pidlab/internal/sim"
)

func sample(tick int, err geom.Point) sim.Sample {
	return sim.Sample{Tick: tick, Target: geom.Pt(400, 300), Error: err}
}

func TestIAE(t *testing.T) {
	m := NewIAE()
	m.Observe(sample(1, geom.Pt(3, 4)))
	m.Observe(sample(2, geom.Pt(0, -2)))
	if got := m.Value(); got != 7 {
		t.Errorf("iae = %v, want 7", got)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("reset should clear the sum")
	}
}

func TestControlEffort(t *testing.T) {
	c := NewControlEffort()
	if c.Value() != 0 {
		t.Error("empty effort should be 0")
	}
	c.Observe(sim.Sample{Control: geom.Pt(6, 8)})
	c.Observe(sim.Sample{Control: geom.Pt(0, 0)})
	c.Observe(sim.Sample{Control: geom.Pt(100, 0), Dragging: true})
	if got := c.Value(); got != 5 {
		t.Errorf("effort = %v, want 5", got)
	}
}

func TestOvershoot(t *testing.T) {
	o := NewOvershoot()
	for i, e := range []geom.Point{
		geom.Pt(10, -10),
		geom.Pt(2, -1),
		geom.Pt(-3, 0.5),
		geom.Pt(-1, 2),
		geom.Pt(0, 0),
	} {
		o.Observe(sample(i+1, e))
	}
	if got := o.Value(); got != 3 {
		t.Errorf("overshoot = %v, want 3", got)
	}
}

func TestOvershoot_TargetChangeRearms(t *testing.T) {
	o := NewOvershoot()
	o.Observe(sample(1, geom.Pt(10, 0)))

	moved := sample(2, geom.Pt(-50, 0))
	moved.Target = geom.Pt(0, 0)
	o.Observe(moved)

	if got := o.Value(); got != 0 {
		t.Errorf("overshoot = %v, want 0 after target change", got)
	}
}

func TestSettlingTick(t *testing.T) {
	m := NewSettlingTick(1, 3)
	norms := []float64{10, 5, 0.5, 0.2, 2, 0.9, 0.1, 0, 0}
	for i, n := range norms {
		m.Observe(sample(i+1, geom.Pt(n, 0)))
	}
	// the final in-tolerance stretch starts at tick 6
	if got := m.Value(); got != 6 {
		t.Errorf("settling tick = %v, want 6", got)
	}

	m.Reset()
	m.Observe(sample(1, geom.Pt(0, 0)))
	if got := m.Value(); got != -1 {
		t.Errorf("settling tick with a partial window = %v, want -1", got)
	}
}

func TestDefaultMetricsOnRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gains = control.Gains{Kp: 0.5}
	cfg.Rounding = control.RoundNone.String()
	cfg.Ticks = 100

	s, err := sim.FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range Default(cfg) {
		s.AddMetric(m)
	}

	result, err := s.Run(context.Background(), cfg.Ticks)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range Names {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %q", name)
		}
	}
	if result.Metrics[NameOvershoot] != 0 {
		t.Errorf("Kp=0.5 should not overshoot, got %v", result.Metrics[NameOvershoot])
	}
	settled := result.Metrics[NameSettlingTick]
	if settled < 1 || settled > 20 {
		t.Errorf("settling tick = %v, want within the first 20 ticks", settled)
	}
	if result.Metrics[NameIAE] <= 0 {
		t.Error("iae should be positive")
	}
}

func TestOvershootPreset(t *testing.T) {
	cfg := config.GetPreset("overshoot")
	if cfg == nil {
		t.Skip("preset missing")
	}
	s, err := sim.FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.AddMetric(NewOvershoot())
	result, err := s.Run(context.Background(), cfg.Ticks)
	if err != nil {
		t.Fatal(err)
	}
	if result.Metrics[NameOvershoot] <= 0 {
		t.Errorf("overshoot preset produced no overshoot (gains %v)", cfg.Gains)
	}
}
