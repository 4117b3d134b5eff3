// Package metrics exposes Prometheus metrics for the credential policy
// engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics registry.
type Config struct {
	// Namespace prefixes every metric name. Default: "vesta".
	Namespace string

	// Subsystem groups the engine metrics. Default: "credential".
	Subsystem string
}

// ValidationMetrics tracks credential validation outcomes. It satisfies the
// engine's metrics contract.
//
// Metrics:
//   - vesta_credential_evaluations_total: evaluations by result and forced flag
//   - vesta_credential_evaluation_duration_seconds: evaluation duration
//   - vesta_credential_constraint_failures_total: failing constraint results by id
type ValidationMetrics struct {
	registry *prometheus.Registry

	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	constraintFailures *prometheus.CounterVec
}

// NewValidationMetrics creates and registers the validation metrics on a
// fresh registry.
func NewValidationMetrics(cfg Config) *ValidationMetrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "vesta"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "credential"
	}

	m := &ValidationMetrics{
		registry: prometheus.NewRegistry(),

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of credential policy evaluations",
			},
			[]string{"result", "forced"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of credential policy evaluation in seconds",
				// Evaluations are in-memory plus one store round-trip.
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),

		constraintFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "constraint_failures_total",
				Help:      "Total number of failing constraint results by constraint id",
			},
			[]string{"constraint_id"},
		),
	}

	m.registry.MustRegister(
		m.evaluationsTotal,
		m.evaluationDuration,
		m.constraintFailures,
	)

	return m
}

// RecordEvaluation records one completed evaluation.
func (m *ValidationMetrics) RecordEvaluation(valid bool, forced bool, duration time.Duration) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	forcedLabel := "false"
	if forced {
		forcedLabel = "true"
	}
	m.evaluationsTotal.WithLabelValues(result, forcedLabel).Inc()
	m.evaluationDuration.Observe(duration.Seconds())
}

// RecordConstraintFailure records one failing constraint result.
func (m *ValidationMetrics) RecordConstraintFailure(constraintID string) {
	m.constraintFailures.WithLabelValues(constraintID).Inc()
}

// Registry exposes the underlying registry for handler wiring and tests.
func (m *ValidationMetrics) Registry() *prometheus.Registry {
	return m.registry
}
