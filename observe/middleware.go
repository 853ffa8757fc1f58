package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/elemops/element"
)

// Middleware wraps element commands with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe CommandFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from wrapped function are recorded and propagated unchanged.
//   - Ownership: Handles, arguments and results are passed through without modification.
type Middleware struct {
	tracer   Tracer
	metrics  Metrics
	logger   Logger
	instance string
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// ForInstance returns a copy of m that labels telemetry with a multiremote
// instance name.
func (m *Middleware) ForInstance(name string) *Middleware {
	c := *m
	c.instance = name
	return &c
}

// Wrap wraps a CommandFunc with tracing, metrics, and logging.
// Its signature matches element.Wrapper.
func (m *Middleware) Wrap(cmd element.Command, fn element.CommandFunc) element.CommandFunc {
	return func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		// Capture identity before the call; recovery may rebind the handle.
		meta := MetaFor(cmd, h)
		meta.Instance = m.instance

		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, err := fn(ctx, h, args...)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, meta, duration, err)

		cmdLogger := m.logger.WithCommand(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Err(err)...)
			cmdLogger.Error(ctx, "element command failed", fields...)
		} else {
			cmdLogger.Debug(ctx, "element command completed", fields...)
		}

		return result, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
