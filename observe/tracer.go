package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/elemops/element"
)

// CommandMeta contains metadata about an element command for telemetry.
type CommandMeta struct {
	Name      string // Command name (required)
	Kind      string // element | locator
	SessionID string // Owning session (optional)
	Browser   string // Browser name from capabilities (optional)
	Instance  string // Multiremote instance name (optional)
	Locator   string // Locator the element was found with (optional)
}

// MetaFor builds CommandMeta for cmd invoked against h.
func MetaFor(cmd element.Command, h *element.Handle) CommandMeta {
	meta := CommandMeta{Name: cmd.Name, Kind: cmd.Kind.String()}
	if h == nil {
		return meta
	}
	if h.Locator.Using != "" {
		meta.Locator = h.Locator.String()
	}
	if s := h.Session(); s != nil {
		meta.SessionID = s.SessionID()
		meta.Browser = s.Capabilities().BrowserName
	}
	return meta
}

// SpanName returns the deterministic span name for this command.
// Format: element.command.<name>
func (m CommandMeta) SpanName() string {
	return "element.command." + m.Name
}

// Validate checks that required fields are set.
func (m CommandMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingCommandName
	}
	return nil
}

func (m CommandMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("command.name", m.Name),
	}
	if m.Kind != "" {
		attrs = append(attrs, attribute.String("command.kind", m.Kind))
	}
	if m.SessionID != "" {
		attrs = append(attrs, attribute.String("session.id", m.SessionID))
	}
	if m.Browser != "" {
		attrs = append(attrs, attribute.String("browser.name", m.Browser))
	}
	if m.Instance != "" {
		attrs = append(attrs, attribute.String("multiremote.instance", m.Instance))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with command-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a command invocation.
	StartSpan(ctx context.Context, meta CommandMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with command metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CommandMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("command.error", false))
	if meta.Locator != "" {
		attrs = append(attrs, attribute.String("element.locator", meta.Locator))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("command.error", true))
		if name := element.ErrorName(err); name != "" {
			span.SetAttributes(attribute.String("command.error_name", name))
		}
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a tracer that records nothing.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CommandMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
