package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordDerive does nothing.
func (NoopMetrics) RecordDerive(_ context.Context, _ string, _ time.Duration, _ int, _ error) {}

// RecordSimplify does nothing.
func (NoopMetrics) RecordSimplify(_ context.Context, _, _ int) {}

// RecordCacheHit does nothing.
func (NoopMetrics) RecordCacheHit(_ context.Context) {}

// RecordStoreSave does nothing.
func (NoopMetrics) RecordStoreSave(_ context.Context, _ int64) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartDeriveSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartDeriveSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartStageSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartStageSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
