package sim

import (
	"testing"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/drag"
	"github.com/san-kum/pidlab/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, g control.Gains) State {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Gains = g
	st, err := NewState(cfg)
	require.NoError(t, err)
	return st
}

func reduceAll(s State, events ...Event) State {
	for _, ev := range events {
		s, _ = Reduce(s, ev)
	}
	return s
}

func TestReduce_TickMovesTowardTarget(t *testing.T) {
	st := newTestState(t, control.Gains{Kp: 0.1})

	next, out := Reduce(st, Tick{})

	require.True(t, out.Ticked)
	// error (300, 200) -> move (30, 20)
	assert.Equal(t, geom.Pt(130, 120), next.Position)
	assert.Equal(t, 1, next.Ticks)
	assert.Equal(t, geom.Pt(100, 100), st.Position, "input state is not modified")
}

func TestReduce_DragStartResetsController(t *testing.T) {
	// GIVEN accumulated controller history
	st := newTestState(t, control.Gains{Kp: 0.1, Ki: 0.01, Kd: 0.3})
	st = reduceAll(st, Tick{}, Tick{}, Tick{})
	require.NotZero(t, st.Controller.X.Integral)
	require.NotZero(t, st.Controller.X.PrevError)
	require.NotZero(t, st.Controller.X.PrevDerivative)

	// WHEN the user grabs the point
	next, out := Reduce(st, PointerDown{Pos: st.Position, Button: drag.ButtonPrimary})

	// THEN
	assert.True(t, out.DragStarted)
	assert.True(t, next.Controller.IsZero())
	assert.True(t, next.Dragging())
}

func TestReduce_NoResetDuringDrag(t *testing.T) {
	st := newTestState(t, control.Gains{Kp: 0.1})
	st = reduceAll(st, Tick{}, PointerDown{Pos: geom.Pt(130, 120)})
	require.True(t, st.Dragging())

	// an unrelated state value planted mid-drag must survive further input
	st.Controller.X.Integral = 5
	st = reduceAll(st,
		PointerMove{Pos: geom.Pt(200, 200)},
		PointerDown{Pos: geom.Pt(200, 200)},
		Tick{},
	)
	assert.Equal(t, 5.0, st.Controller.X.Integral)
}

func TestReduce_MissedPointerDoesNotReset(t *testing.T) {
	st := newTestState(t, control.Gains{Kp: 0.1})
	st = reduceAll(st, Tick{})
	before := st.Controller

	next, out := Reduce(st, PointerDown{Pos: geom.Pt(700, 500)})

	assert.False(t, out.DragStarted)
	assert.Equal(t, before, next.Controller)
	assert.False(t, next.Dragging())
}

func TestReduce_TicksSuppressedWhileDragging(t *testing.T) {
	st := newTestState(t, control.Gains{Kp: 0.5, Ki: 0.1, Kd: 0.5})
	st = reduceAll(st, PointerDown{Pos: st.Position})

	for i := 0; i < 10; i++ {
		var out Outcome
		prev := st.Position
		st, out = Reduce(st, Tick{})
		assert.False(t, out.Ticked)
		assert.True(t, out.Skipped)
		assert.Equal(t, prev, st.Position)
	}
	assert.Equal(t, 10, st.Skipped)
	assert.Equal(t, 0, st.Ticks)

	st, out := Reduce(st, PointerMove{Pos: geom.Pt(600, 450)})
	assert.True(t, out.Moved)
	assert.Equal(t, geom.Pt(600, 450), st.Position)
}

func TestReduce_ResumeAfterDragUsesResetState(t *testing.T) {
	g := control.Gains{Kd: 1}
	st := newTestState(t, g)
	st.Options.DerivativeAlpha = 1
	st = reduceAll(st, Tick{})
	require.Equal(t, 300.0, st.Controller.X.PrevError)

	st = reduceAll(st,
		PointerDown{Pos: st.Position},
		PointerMove{Pos: geom.Pt(350, 250)},
		PointerUp{},
	)
	require.False(t, st.Dragging())

	_, out := Reduce(st, Tick{})
	require.True(t, out.Ticked)
	// target (400, 300), previous error must be zero, not the pre-drag error
	assert.Equal(t, 50.0, out.Step.X.Derivative)
	assert.Equal(t, 50.0, out.Step.Y.Derivative)
	assert.Equal(t, 50.0, out.Step.X.Integral)
}

func TestReduce_MalformedGainIsIgnored(t *testing.T) {
	st := newTestState(t, control.Gains{Kp: 0.1})
	st = reduceAll(st, Tick{})

	st, out := Reduce(st, SetGain{Name: "kp", Text: "0.2abc"})
	require.NoError(t, out.Err)
	st, out = Reduce(st, Tick{})

	require.True(t, out.Ticked)
	assert.InDelta(t, 0.1*out.Step.X.Error, out.Step.X.Control, 1e-9)
	assert.Equal(t, 0.1, st.Gains().Kp)

	st, _ = Reduce(st, SetGain{Name: "kp", Text: "0.2"})
	st, _ = Reduce(st, Tick{})
	assert.Equal(t, 0.2, st.Gains().Kp)
}

func TestReduce_UnknownGain(t *testing.T) {
	st := newTestState(t, control.Gains{Kp: 0.1})
	next, out := Reduce(st, SetGain{Name: "kq", Text: "1"})
	assert.ErrorIs(t, out.Err, control.ErrUnknownGain)
	assert.Equal(t, st.Fields, next.Fields)
}

func TestReduce_SetTargetAndRestart(t *testing.T) {
	st := newTestState(t, control.Gains{Kp: 0.1})
	st = reduceAll(st,
		SetTarget{Pos: geom.Pt(50, 50)},
		SetGain{Name: "kp", Text: "0.4"},
		Tick{}, Tick{},
		PointerDown{Pos: geom.Pt(500, 500)},
	)
	assert.Equal(t, geom.Pt(50, 50), st.Target)

	st = reduceAll(st, Restart{})

	assert.Equal(t, geom.Pt(100, 100), st.Position)
	assert.Equal(t, geom.Pt(400, 300), st.Target)
	assert.Equal(t, "0.1", st.Fields.Kp.Text)
	assert.True(t, st.Controller.IsZero())
	assert.False(t, st.Dragging())
	assert.Zero(t, st.Ticks)
}

func TestReduce_PositionStaysInBounds(t *testing.T) {
	st := newTestState(t, control.Gains{Kp: 3})
	st.Target = geom.Pt(5000, -5000)
	for i := 0; i < 20; i++ {
		st, _ = Reduce(st, Tick{})
		require.True(t, st.Bounds.Contains(st.Position), "tick %d: %v", i, st.Position)
	}
	assert.Equal(t, geom.Pt(740, 0), st.Position)
}
