// Package control implements the two-axis PID position controller.
//
// The controller is a pure state transition. Each call to [Tick] (or
// [Advance], which also reports per-axis telemetry) takes the current
// position, the target, the gains and the previous [State], and returns the
// next position and state:
//
//	pos, st = control.Tick(pos, target, gains, st, bounds, control.DefaultOptions())
//
// Both axes run the same formula independently and always read the position
// from before the tick. The integral is clamped to ±[Options.IntegralClamp],
// the derivative passes through a one-pole low-pass filter with coefficient
// [Options.DerivativeAlpha] (1 disables filtering), and the resulting control
// output is applied as a movement rounded per [Options.Rounding] and then
// clamped to the bounds.
//
// The package holds no goroutines or locks. Callers decide when a tick may
// run; in particular ticks must be suppressed while the user drags the
// controlled point, and [State.Reset] must be called when such a drag starts.
package control
