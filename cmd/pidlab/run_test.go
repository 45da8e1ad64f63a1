package main

import (
	"testing"

	"github.com/san-kum/pidlab/internal/control"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateGains(t *testing.T) {
	// GIVEN
	base := control.Gains{Kp: 0.2, Ki: 0.01, Kd: 0.5}

	// WHEN
	g, err := candidateGains(base, map[string]float64{"kp": 0.8, "kd": 0})

	// THEN
	require.NoError(t, err)
	assert.Equal(t, control.Gains{Kp: 0.8, Ki: 0.01, Kd: 0}, g)
	assert.Equal(t, 0.2, base.Kp)
}

func TestCandidateGains_UnknownName(t *testing.T) {
	base := control.Gains{Kp: 0.2}

	g, err := candidateGains(base, map[string]float64{"kx": 1})

	assert.ErrorIs(t, err, control.ErrUnknownGain)
	assert.Equal(t, base, g)
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "never", formatMetric("settling_tick", -1))
}
