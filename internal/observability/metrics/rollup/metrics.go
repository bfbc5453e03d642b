// Package rollupmetrics defines the metrics surface for the rollup module.
package rollupmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RollupMetrics records rollup pipeline activity.
type RollupMetrics interface {
	RecordRunAttempt(ctx context.Context, windowLabel string)
	RecordRunSuccess(ctx context.Context, windowLabel string)
	RecordRunFailure(ctx context.Context, windowLabel string)
	RecordRunDuration(ctx context.Context, windowLabel string, d time.Duration)
	RecordEventProcessed(ctx context.Context)
	RecordEventSkipped(ctx context.Context)
	RecordChunkCommitted(ctx context.Context, size int)
}

// PrometheusMetrics implements RollupMetrics on a prometheus registry.
type PrometheusMetrics struct {
	runAttempts     *prometheus.CounterVec
	runSuccesses    *prometheus.CounterVec
	runFailures     *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	eventsProcessed prometheus.Counter
	eventsSkipped   prometheus.Counter
	chunksCommitted prometheus.Counter
	writesCommitted prometheus.Counter
}

// NewPrometheusMetrics registers the rollup collectors on the given registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		runAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollup_run_attempts_total",
			Help: "Number of rollup runs started.",
		}, []string{"window"}),
		runSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollup_run_successes_total",
			Help: "Number of rollup runs completed successfully.",
		}, []string{"window"}),
		runFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollup_run_failures_total",
			Help: "Number of rollup runs aborted by a fatal error.",
		}, []string{"window"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rollup_run_duration_seconds",
			Help:    "Wall-clock duration of rollup runs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"window"}),
		eventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rollup_events_processed_total",
			Help: "Events whose results were folded into the aggregate.",
		}),
		eventsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rollup_events_skipped_total",
			Help: "Events skipped after a result fetch failure.",
		}),
		chunksCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rollup_chunks_committed_total",
			Help: "Write chunks committed to the rollup store.",
		}),
		writesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rollup_writes_committed_total",
			Help: "Individual rollup document writes committed.",
		}),
	}

	reg.MustRegister(
		m.runAttempts, m.runSuccesses, m.runFailures, m.runDuration,
		m.eventsProcessed, m.eventsSkipped, m.chunksCommitted, m.writesCommitted,
	)
	return m
}

func (m *PrometheusMetrics) RecordRunAttempt(_ context.Context, windowLabel string) {
	m.runAttempts.WithLabelValues(windowLabel).Inc()
}

func (m *PrometheusMetrics) RecordRunSuccess(_ context.Context, windowLabel string) {
	m.runSuccesses.WithLabelValues(windowLabel).Inc()
}

func (m *PrometheusMetrics) RecordRunFailure(_ context.Context, windowLabel string) {
	m.runFailures.WithLabelValues(windowLabel).Inc()
}

func (m *PrometheusMetrics) RecordRunDuration(_ context.Context, windowLabel string, d time.Duration) {
	m.runDuration.WithLabelValues(windowLabel).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordEventProcessed(_ context.Context) {
	m.eventsProcessed.Inc()
}

func (m *PrometheusMetrics) RecordEventSkipped(_ context.Context) {
	m.eventsSkipped.Inc()
}

func (m *PrometheusMetrics) RecordChunkCommitted(_ context.Context, size int) {
	m.chunksCommitted.Inc()
	m.writesCommitted.Add(float64(size))
}

// NoOpMetrics discards all measurements. Used in tests.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordRunAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordRunSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordRunFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordRunDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordEventProcessed(context.Context)                     {}
func (NoOpMetrics) RecordEventSkipped(context.Context)                       {}
func (NoOpMetrics) RecordChunkCommitted(context.Context, int)                {}
