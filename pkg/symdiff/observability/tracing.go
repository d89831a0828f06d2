package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("symdiff")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartDeriveSpan starts a span for a whole derivation run.
	StartDeriveSpan(ctx context.Context, variable, runID string) (context.Context, trace.Span)

	// StartStageSpan starts a span for one stage (differentiate, simplify, store).
	// The stage span should be a child of the derive span.
	StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
// A nil tr means the package tracer.
type otelSpanManager struct {
	tr trace.Tracer
}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// NewSpanManagerWithTracer returns a SpanManager that starts spans on tr.
func NewSpanManagerWithTracer(tr trace.Tracer) SpanManager {
	return &otelSpanManager{tr: tr}
}

func (m *otelSpanManager) tracer() trace.Tracer {
	if m.tr != nil {
		return m.tr
	}
	return tracer
}

// StartDeriveSpan starts a span for a derivation run.
func (m *otelSpanManager) StartDeriveSpan(ctx context.Context, variable, runID string) (context.Context, trace.Span) {
	return startDeriveSpan(ctx, m.tracer(), variable, runID)
}

// StartStageSpan starts a span for a stage.
func (m *otelSpanManager) StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return startStageSpan(ctx, m.tracer(), stage)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

func startDeriveSpan(ctx context.Context, tr trace.Tracer, variable, runID string) (context.Context, trace.Span) {
	return tr.Start(ctx, "symdiff.derive",
		trace.WithAttributes(
			attribute.String("derive.variable", variable),
			attribute.String("run.id", runID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func startStageSpan(ctx context.Context, tr trace.Tracer, stage string) (context.Context, trace.Span) {
	return tr.Start(ctx, "symdiff.stage."+stage,
		trace.WithAttributes(
			attribute.String("stage", stage),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// Convenience functions that operate on the global tracer.

// StartDeriveSpan starts a span for a derivation run.
// Uses the global OTel tracer.
func StartDeriveSpan(ctx context.Context, variable, runID string) (context.Context, trace.Span) {
	return startDeriveSpan(ctx, tracer, variable, runID)
}

// StartStageSpan starts a span for a stage.
// Uses the global OTel tracer.
func StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return startStageSpan(ctx, tracer, stage)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
