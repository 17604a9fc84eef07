package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects solve statistics for the /metrics endpoint.
type Metrics struct {
	solveDuration *prometheus.HistogramVec
	solvesTotal   *prometheus.CounterVec
	attempts      *prometheus.HistogramVec
	rateLimited   prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ballistics_solve_duration_seconds",
				Help:    "Time spent running a solve",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"mode"},
		),
		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballistics_solves_total",
				Help: "Solves handled, by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		attempts: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ballistics_solve_attempts",
				Help:    "Forward simulations run per solve",
				Buckets: prometheus.LinearBuckets(0, 10, 12),
			},
			[]string{"mode"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ballistics_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		}),
	}

	reg.MustRegister(m.solveDuration, m.solvesTotal, m.attempts, m.rateLimited)
	return m
}

// RecordSolve records one finished solve. attempts is ignored for failed solves.
func (m *Metrics) RecordSolve(mode, outcome string, d time.Duration, attempts int) {
	m.solveDuration.WithLabelValues(mode).Observe(d.Seconds())
	m.solvesTotal.WithLabelValues(mode, outcome).Inc()
	if attempts > 0 {
		m.attempts.WithLabelValues(mode).Observe(float64(attempts))
	}
}

// RecordRateLimited counts a rejected request.
func (m *Metrics) RecordRateLimited() {
	m.rateLimited.Inc()
}
