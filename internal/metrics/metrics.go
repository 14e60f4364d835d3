// Package metrics exposes Prometheus instrumentation for the simulator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the simulator's instruments. A nil *Metrics is valid and
// drops every observation, so callers never need to guard.
type Metrics struct {
	callsCompleted *prometheus.CounterVec
	activeCalls    prometheus.Gauge
	turnDuration   prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		callsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "callsim_calls_completed_total",
			Help: "Completed calls by outcome.",
		}, []string{"outcome"}),
		activeCalls: factory.NewGauge(prometheus.GaugeOpts{
			Name: "callsim_active_calls",
			Help: "Calls currently in progress.",
		}),
		turnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "callsim_turn_duration_seconds",
			Help:    "Wall time of one full exchange turn.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

func (m *Metrics) CallStarted() {
	if m == nil {
		return
	}
	m.activeCalls.Inc()
}

func (m *Metrics) CallFinished() {
	if m == nil {
		return
	}
	m.activeCalls.Dec()
}

func (m *Metrics) CallCompleted(outcome string) {
	if m == nil {
		return
	}
	m.callsCompleted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveTurn(d time.Duration) {
	if m == nil {
		return
	}
	m.turnDuration.Observe(d.Seconds())
}
