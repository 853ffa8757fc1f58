package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for element commands.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records a command execution with duration and error status.
	RecordExecution(ctx context.Context, meta CommandMeta, duration time.Duration, err error)

	// RecordRecovery records one recovery attempt of the given kind
	// (stale, not_interactable) and whether the retried command failed.
	RecordRecovery(ctx context.Context, meta CommandMeta, kind string, err error)
}

type metricsImpl struct {
	totalCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	recoveryCount metric.Int64Counter
	durationHist  metric.Float64Histogram
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"element.command.total",
		metric.WithDescription("Total number of element command invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"element.command.errors",
		metric.WithDescription("Total number of failed element command invocations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	recoveryCount, err := meter.Int64Counter(
		"element.command.recoveries",
		metric.WithDescription("Recovery attempts by failure class"),
		metric.WithUnit("{recovery}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"element.command.duration_ms",
		metric.WithDescription("Element command duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:    totalCount,
		errorCount:    errorCount,
		recoveryCount: recoveryCount,
		durationHist:  durationHist,
	}, nil
}

// RecordExecution records metrics for a command execution.
func (m *metricsImpl) RecordExecution(ctx context.Context, meta CommandMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRecovery records a recovery attempt.
func (m *metricsImpl) RecordRecovery(ctx context.Context, meta CommandMeta, kind string, err error) {
	outcome := "recovered"
	if err != nil {
		outcome = "failed"
	}
	attrs := append(meta.attributes(),
		attribute.String("recovery.kind", kind),
		attribute.String("recovery.outcome", outcome),
	)
	m.recoveryCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

type noopMetrics struct{}

// NewNoopMetrics returns a Metrics that records nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *noopMetrics) RecordExecution(ctx context.Context, meta CommandMeta, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordRecovery(ctx context.Context, meta CommandMeta, kind string, err error) {}
