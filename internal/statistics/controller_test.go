package statistics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/geom"
	"github.com/san-kum/pidlab/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource sim.Snapshot

func (s staticSource) Snapshot() sim.Snapshot { return sim.Snapshot(s) }

func TestControllerCollector(t *testing.T) {
	src := staticSource{
		Ticks:    12,
		Skipped:  3,
		Position: geom.Pt(120, 80),
		Target:   geom.Pt(400, 300),
		Error:    geom.Pt(280, 220),
		Gains:    control.Gains{Kp: 0.1, Ki: 0.01, Kd: 0.3},
		Dragging: true,
	}
	collector := NewControllerCollector(src)

	assert.Equal(t, 16, testutil.CollectAndCount(collector))

	expected := `
# HELP pidlab_controller_ticks_total Controller ticks executed since the last restart
# TYPE pidlab_controller_ticks_total counter
pidlab_controller_ticks_total 12
# HELP pidlab_controller_dragging 1 while a manual drag is in progress
# TYPE pidlab_controller_dragging gauge
pidlab_controller_dragging 1
# HELP pidlab_controller_position Current position of the controlled point
# TYPE pidlab_controller_position gauge
pidlab_controller_position{axis="x"} 120
pidlab_controller_position{axis="y"} 80
# HELP pidlab_controller_gain Gain value in effect
# TYPE pidlab_controller_gain gauge
pidlab_controller_gain{gain="kd"} 0.3
pidlab_controller_gain{gain="ki"} 0.01
pidlab_controller_gain{gain="kp"} 0.1
`
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"pidlab_controller_ticks_total",
		"pidlab_controller_dragging",
		"pidlab_controller_position",
		"pidlab_controller_gain",
	)
	require.NoError(t, err)
}

func TestControllerCollector_Lint(t *testing.T) {
	problems, err := testutil.CollectAndLint(NewControllerCollector(staticSource{}))
	require.NoError(t, err)
	assert.Empty(t, problems)
}
