package control

import (
	"fmt"
	"math"

	"github.com/san-kum/pidlab/internal/geom"
)

const (
	DefaultIntegralClamp   = 100.0
	DefaultDerivativeAlpha = 0.1
)

// AxisState is the controller memory for a single axis.
type AxisState struct {
	Integral       float64 `json:"integral"`
	PrevError      float64 `json:"prev_error"`
	PrevDerivative float64 `json:"prev_derivative"`
}

// State holds both axes' controller memory.
type State struct {
	X AxisState `json:"x"`
	Y AxisState `json:"y"`
}

// Reset clears integral and derivative history on both axes.
func (s *State) Reset() {
	*s = State{}
}

func (s State) IsZero() bool {
	return s == State{}
}

// Options are the fixed tuning constants of the controller.
type Options struct {
	IntegralClamp   float64
	DerivativeAlpha float64
	Rounding        RoundingMode
}

func DefaultOptions() Options {
	return Options{
		IntegralClamp:   DefaultIntegralClamp,
		DerivativeAlpha: DefaultDerivativeAlpha,
		Rounding:        RoundHalfEven,
	}
}

// Validate reports options that would make the controller meaningless.
func (o Options) Validate() error {
	if o.IntegralClamp < 0 || math.IsNaN(o.IntegralClamp) {
		return fmt.Errorf("%w: integral clamp must be >= 0, got %v", ErrInvalidOptions, o.IntegralClamp)
	}
	if !(o.DerivativeAlpha > 0 && o.DerivativeAlpha <= 1) {
		return fmt.Errorf("%w: derivative alpha must be in (0, 1], got %v", ErrInvalidOptions, o.DerivativeAlpha)
	}
	if o.Rounding < RoundHalfEven || o.Rounding > RoundNone {
		return fmt.Errorf("%w: rounding mode %d", ErrInvalidOptions, o.Rounding)
	}
	return nil
}

// AxisStep is the per-axis telemetry of one tick.
type AxisStep struct {
	Error      float64 `json:"error"`
	Integral   float64 `json:"integral"`
	Derivative float64 `json:"derivative"`
	Control    float64 `json:"control"`
	Move       float64 `json:"move"`
}

// Step is the full result of advancing the controller by one tick.
type Step struct {
	Position geom.Point `json:"position"`
	State    State      `json:"state"`
	X        AxisStep   `json:"x"`
	Y        AxisStep   `json:"y"`
}

func (s Step) Error() geom.Point   { return geom.Pt(s.X.Error, s.Y.Error) }
func (s Step) Control() geom.Point { return geom.Pt(s.X.Control, s.Y.Control) }
func (s Step) Move() geom.Point    { return geom.Pt(s.X.Move, s.Y.Move) }

// Tick advances pos one step toward target and returns the new position and
// controller state.
func Tick(pos, target geom.Point, g Gains, st State, bounds geom.Rect, opts Options) (geom.Point, State) {
	s := Advance(pos, target, g, st, bounds, opts)
	return s.Position, s.State
}

// Advance is Tick with per-axis telemetry.
func Advance(pos, target geom.Point, g Gains, st State, bounds geom.Rect, opts Options) Step {
	var s Step
	s.Position.X, s.State.X, s.X = opts.axis(g, st.X, pos.X, target.X, bounds.MinX, bounds.MaxX)
	s.Position.Y, s.State.Y, s.Y = opts.axis(g, st.Y, pos.Y, target.Y, bounds.MinY, bounds.MaxY)
	return s
}

func (o Options) axis(g Gains, st AxisState, pos, target, lo, hi float64) (float64, AxisState, AxisStep) {
	err := target - pos
	integral := geom.Clamp(st.Integral+err, -o.IntegralClamp, o.IntegralClamp)
	derivative := o.DerivativeAlpha*(err-st.PrevError) + (1-o.DerivativeAlpha)*st.PrevDerivative

	u := g.Kp*err + g.Ki*integral + g.Kd*derivative
	move := o.Rounding.Apply(u)

	next := AxisState{
		Integral:       integral,
		PrevError:      err,
		PrevDerivative: derivative,
	}
	step := AxisStep{
		Error:      err,
		Integral:   integral,
		Derivative: derivative,
		Control:    u,
		Move:       move,
	}
	return geom.Clamp(pos+move, lo, hi), next, step
}
