package web

import (
	"cydwatch/internal/core/stopwatch"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
}

// newMetrics registers the stopwatch collectors on a private registry so
// that several servers can coexist in one process.
func newMetrics(watch *stopwatch.Stopwatch) *metrics {
	registry := prometheus.NewRegistry()

	elapsed := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "cydwatch",
		Name:      "elapsed_seconds",
		Help:      "Accumulated stopwatch time in seconds.",
	}, func() float64 {
		return float64(watch.Elapsed()) / 1000
	})
	running := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "cydwatch",
		Name:      "running",
		Help:      "1 while the stopwatch is running.",
	}, func() float64 {
		if watch.IsRunning() {
			return 1
		}
		return 0
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cydwatch",
		Name:      "transitions_total",
		Help:      "Stopwatch state transitions by kind.",
	}, []string{"event"})

	registry.MustRegister(elapsed, running, transitions)
	return &metrics{registry: registry, transitions: transitions}
}

func (m *metrics) observe(event stopwatch.Event) {
	m.transitions.WithLabelValues(string(event.Type)).Inc()
}
