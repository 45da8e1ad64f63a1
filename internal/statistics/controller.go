package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/sim"
)

const controllerSubsystem = "controller"

// SnapshotSource is satisfied by *sim.Loop.
type SnapshotSource interface {
	Snapshot() sim.Snapshot
}

type ControllerCollector struct {
	source SnapshotSource

	position *prometheus.Desc
	target   *prometheus.Desc
	err      *prometheus.Desc
	integral *prometheus.Desc
	control  *prometheus.Desc
	gain     *prometheus.Desc
	ticks    *prometheus.Desc
	skipped  *prometheus.Desc
	dragging *prometheus.Desc
}

func axisDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, name),
		help,
		[]string{"axis"}, nil,
	)
}

func NewControllerCollector(source SnapshotSource) *ControllerCollector {
	return &ControllerCollector{
		source:   source,
		position: axisDesc("position", "Current position of the controlled point"),
		target:   axisDesc("target", "Current target position"),
		err:      axisDesc("error", "Target minus position"),
		integral: axisDesc("integral", "Clamped integral accumulator"),
		control:  axisDesc("control", "Unrounded controller output of the last tick"),
		gain: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "gain"),
			"Gain value in effect",
			[]string{"gain"}, nil,
		),
		ticks: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "ticks_total"),
			"Controller ticks executed since the last restart",
			nil, nil,
		),
		skipped: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "skipped_ticks_total"),
			"Ticks suppressed while the point was being dragged",
			nil, nil,
		),
		dragging: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "dragging"),
			"1 while a manual drag is in progress",
			nil, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.position
	ch <- collector.target
	ch <- collector.err
	ch <- collector.integral
	ch <- collector.control
	ch <- collector.gain
	ch <- collector.ticks
	ch <- collector.skipped
	ch <- collector.dragging
}

func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	snap := collector.source.Snapshot()

	axis := func(desc *prometheus.Desc, x, y float64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, x, "x")
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, y, "y")
	}
	axis(collector.position, snap.Position.X, snap.Position.Y)
	axis(collector.target, snap.Target.X, snap.Target.Y)
	axis(collector.err, snap.Error.X, snap.Error.Y)
	axis(collector.integral, snap.Controller.X.Integral, snap.Controller.Y.Integral)
	axis(collector.control, snap.LastStep.X.Control, snap.LastStep.Y.Control)

	for _, name := range control.GainNames {
		v, _ := snap.Gains.Get(name)
		ch <- prometheus.MustNewConstMetric(collector.gain, prometheus.GaugeValue, v, name)
	}

	ch <- prometheus.MustNewConstMetric(collector.ticks, prometheus.CounterValue, float64(snap.Ticks))
	ch <- prometheus.MustNewConstMetric(collector.skipped, prometheus.CounterValue, float64(snap.Skipped))

	dragging := 0.0
	if snap.Dragging {
		dragging = 1
	}
	ch <- prometheus.MustNewConstMetric(collector.dragging, prometheus.GaugeValue, dragging)
}
