// Package statistics exposes the live controller state to Prometheus.
package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "pidlab"
)

func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}
