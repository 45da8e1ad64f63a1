package metrics

import (
	"math"

	"github.com/san-kum/pidlab/internal/geom"
	"github.com/san-kum/pidlab/internal/sim"
)

// Overshoot is the largest distance, on either axis, the point travelled past
// the target after approaching it. A target change starts a new approach.
type Overshoot struct {
	target  geom.Point
	armed   bool
	signX   float64
	signY   float64
	maximum float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{}
}

func (o *Overshoot) Name() string { return NameOvershoot }

func (o *Overshoot) Observe(s sim.Sample) {
	if s.Dragging {
		// a drag is a new approach once released
		o.armed = false
		return
	}
	if !o.armed || s.Target != o.target {
		o.target = s.Target
		o.signX, o.signY = 0, 0
		o.armed = true
	}
	o.signX = o.axis(o.signX, s.Error.X)
	o.signY = o.axis(o.signY, s.Error.Y)
}

func (o *Overshoot) axis(sign, err float64) float64 {
	if sign == 0 {
		if err == 0 {
			return 0
		}
		return math.Copysign(1, err)
	}
	if past := -sign * err; past > o.maximum {
		o.maximum = past
	}
	return sign
}

func (o *Overshoot) Value() float64 { return o.maximum }

func (o *Overshoot) Reset() {
	*o = Overshoot{}
}
