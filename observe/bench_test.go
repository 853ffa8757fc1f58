package observe

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/elemops/element"
)

func benchMeta() CommandMeta {
	return CommandMeta{
		Name:      "click",
		Kind:      "element",
		SessionID: "s-1",
		Browser:   "chrome",
		Instance:  "chrome",
		Locator:   "css selector=#submit",
	}
}

// BenchmarkLogger_Info measures logging throughput.
func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", Field{Key: "iteration", Value: i})
	}
}

// BenchmarkLogger_Redaction measures logging fields that must be redacted.
func BenchmarkLogger_Redaction(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	fields := []Field{
		{Key: "args", Value: []any{"hunter2"}},
		{Key: "value", Value: "hunter2"},
		{Key: "element.id", Value: "e-1"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "typed", fields...)
	}
}

// BenchmarkLogger_WithCommand_ThenLog measures scoping a logger to a command
// and logging once.
func BenchmarkLogger_WithCommand_ThenLog(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	meta := benchMeta()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.WithCommand(meta).Info(ctx, "done")
	}
}

// BenchmarkLogger_LevelFiltering measures the cost of a filtered-out call.
func BenchmarkLogger_LevelFiltering(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "dropped")
	}
}

// BenchmarkErr measures building error fields for a protocol error.
func BenchmarkErr(b *testing.B) {
	err := element.NewProtocolError(element.NameStaleElement, "node detached", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Err(err)
	}
}

// BenchmarkMetaFor measures deriving command metadata from a handle.
func BenchmarkMetaFor(b *testing.B) {
	h := testHandle()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MetaFor(element.Click, h)
	}
}

// BenchmarkCommandMeta_SpanName measures span name generation.
func BenchmarkCommandMeta_SpanName(b *testing.B) {
	meta := benchMeta()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = meta.SpanName()
	}
}

// BenchmarkTracer_StartEndSpan measures the span lifecycle on a noop provider.
func BenchmarkTracer_StartEndSpan(b *testing.B) {
	tracer := NewTracer(tracenoop.NewTracerProvider().Tracer("bench"))
	ctx := context.Background()
	meta := benchMeta()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, span := tracer.StartSpan(ctx, meta)
		tracer.EndSpan(span, nil)
	}
}

// BenchmarkMetrics_RecordExecution measures metrics recording.
func BenchmarkMetrics_RecordExecution(b *testing.B) {
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	metrics, err := NewMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	meta := benchMeta()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		metrics.RecordExecution(ctx, meta, time.Millisecond, nil)
	}
}

// BenchmarkMetrics_RecordRecovery measures recovery metrics with an error.
func BenchmarkMetrics_RecordRecovery(b *testing.B) {
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	metrics, err := NewMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	meta := benchMeta()
	recoverErr := errors.New("refetch failed")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		metrics.RecordRecovery(ctx, meta, "stale", recoverErr)
	}
}

// BenchmarkMiddleware_Wrap measures a wrapped command with noop telemetry.
func BenchmarkMiddleware_Wrap(b *testing.B) {
	mw := NewMiddleware(NewNoopTracer(), NewNoopMetrics(), NewNoopLogger()).ForInstance("chrome")
	fn := mw.Wrap(element.GetText, func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		return "Submit", nil
	})
	h := testHandle()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fn(ctx, h)
	}
}

// BenchmarkMiddleware_Wrap_WithLogging measures middleware with logging enabled.
func BenchmarkMiddleware_Wrap_WithLogging(b *testing.B) {
	mw := NewMiddleware(NewNoopTracer(), NewNoopMetrics(), NewLoggerWithWriter("debug", io.Discard))
	fn := mw.Wrap(element.Click, func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		return nil, nil
	})
	h := testHandle()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fn(ctx, h)
	}
}

// BenchmarkConcurrent_Middleware measures parallel wrapped commands.
func BenchmarkConcurrent_Middleware(b *testing.B) {
	mw := NewMiddleware(NewNoopTracer(), NewNoopMetrics(), NewLoggerWithWriter("info", io.Discard))
	fn := mw.Wrap(element.GetText, func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
		return "Submit", nil
	})
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		h := testHandle()
		for pb.Next() {
			_, _ = fn(ctx, h)
		}
	})
}

// BenchmarkConfig_Validate measures configuration validation.
func BenchmarkConfig_Validate(b *testing.B) {
	cfg := Config{
		ServiceName: "elemrun",
		Tracing:     TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.5},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cfg.Validate()
	}
}
