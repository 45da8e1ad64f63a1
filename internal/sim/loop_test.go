package sim

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T, cfg *config.Config, period time.Duration) (*Loop, context.CancelFunc, chan error) {
	t.Helper()
	st, err := NewState(cfg)
	require.NoError(t, err)

	l := NewLoop(st, period)
	var ticks atomic.Int64
	l.AddObserver(ObserverFunc(func(Sample) { ticks.Add(1) }))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	return l, cancel, errc
}

func TestLoop_InitialSnapshot(t *testing.T) {
	st, err := NewState(config.DefaultConfig())
	require.NoError(t, err)

	snap := NewLoop(st, time.Second).Snapshot()
	assert.Equal(t, geom.Pt(100, 100), snap.Position)
	assert.Equal(t, geom.Pt(300, 200), snap.Error)
	assert.Zero(t, snap.Ticks)
	assert.False(t, snap.Dragging)
}

func TestLoop_ConvergesInRealTime(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gains = control.Gains{Kp: 1}
	l, cancel, errc := startLoop(t, cfg, time.Millisecond)

	require.Eventually(t, func() bool {
		return l.Snapshot().Position == geom.Pt(400, 300)
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-errc)
	assert.ErrorIs(t, l.Send(context.Background(), Tick{}), ErrLoopStopped)
}

func TestLoop_Events(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gains = control.Gains{Kp: 0.5}
	l, cancel, errc := startLoop(t, cfg, time.Hour)
	defer func() {
		cancel()
		<-errc
	}()

	ctx := context.Background()
	require.NoError(t, l.Send(ctx, PointerDown{Pos: geom.Pt(110, 90)}))
	require.NoError(t, l.Send(ctx, PointerMove{Pos: geom.Pt(20, 30)}))
	require.NoError(t, l.Send(ctx, SetGain{Name: "ki", Text: "0.02"}))

	require.Eventually(t, func() bool {
		s := l.Snapshot()
		return s.Position == geom.Pt(20, 30) && s.Fields.Ki.Text == "0.02"
	}, time.Second, time.Millisecond)
	assert.True(t, l.Snapshot().Dragging)

	require.NoError(t, l.Send(ctx, PointerUp{}))
	require.NoError(t, l.Send(ctx, Tick{}))
	require.Eventually(t, func() bool { return l.Snapshot().Ticks == 1 }, time.Second, time.Millisecond)

	snap := l.Snapshot()
	assert.False(t, snap.Dragging)
	assert.Equal(t, 0.02, snap.Gains.Ki)
	assert.Equal(t, geom.Pt(380, 270), snap.LastStep.Error())

	require.NoError(t, l.Send(ctx, Restart{}))
	require.Eventually(t, func() bool { return l.Snapshot().Ticks == 0 }, time.Second, time.Millisecond)
	assert.Equal(t, control.Step{}, l.Snapshot().LastStep)
}

func TestLoop_SendCancelled(t *testing.T) {
	st, err := NewState(config.DefaultConfig())
	require.NoError(t, err)
	l := NewLoop(st, time.Hour)

	// fill the queue with no reader
	for i := 0; i < eventQueueSize; i++ {
		require.NoError(t, l.Send(context.Background(), Tick{}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Send(ctx, Tick{}), context.DeadlineExceeded)
}
