package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records derivation metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDerive records a derivation run with its duration, result size and error status.
	RecordDerive(ctx context.Context, variable string, duration time.Duration, nodes int, err error)

	// RecordSimplify records the literal folds and freed nodes of a simplification.
	RecordSimplify(ctx context.Context, folds, freed int)

	// RecordCacheHit records a derivative served from the cache.
	RecordCacheHit(ctx context.Context)

	// RecordStoreSave records a persisted derivation record.
	RecordStoreSave(ctx context.Context, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	deriveRuns    metric.Int64Counter
	deriveLatency metric.Float64Histogram
	deriveErrors  metric.Int64Counter
	deriveNodes   metric.Int64Histogram
	folds         metric.Int64Counter
	freed         metric.Int64Counter
	cacheHits     metric.Int64Counter
	recordSize    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.Meter("symdiff"))
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates the instruments on meter.
func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	deriveRuns, err := meter.Int64Counter("symdiff.derive.runs",
		metric.WithDescription("Number of derivation runs"),
	)
	if err != nil {
		return nil, err
	}

	deriveLatency, err := meter.Float64Histogram("symdiff.derive.latency_ms",
		metric.WithDescription("Derivation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	deriveErrors, err := meter.Int64Counter("symdiff.derive.errors",
		metric.WithDescription("Number of failed derivations"),
	)
	if err != nil {
		return nil, err
	}

	deriveNodes, err := meter.Int64Histogram("symdiff.derive.nodes",
		metric.WithDescription("Node count of simplified derivatives"),
	)
	if err != nil {
		return nil, err
	}

	folds, err := meter.Int64Counter("symdiff.simplify.folds",
		metric.WithDescription("Number of literal subexpressions folded"),
	)
	if err != nil {
		return nil, err
	}

	freed, err := meter.Int64Counter("symdiff.simplify.freed",
		metric.WithDescription("Number of nodes released by simplification"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter("symdiff.cache.hits",
		metric.WithDescription("Number of derivatives served from the cache"),
	)
	if err != nil {
		return nil, err
	}

	recordSize, err := meter.Int64Histogram("symdiff.store.record_bytes",
		metric.WithDescription("Size of persisted derivation records in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		deriveRuns:    deriveRuns,
		deriveLatency: deriveLatency,
		deriveErrors:  deriveErrors,
		deriveNodes:   deriveNodes,
		folds:         folds,
		freed:         freed,
		cacheHits:     cacheHits,
		recordSize:    recordSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderWithMeter returns a MetricsRecorder whose instruments
// are created on meter rather than the global provider.
func NewMetricsRecorderWithMeter(meter metric.Meter) (MetricsRecorder, error) {
	m, err := newOtelMetrics(meter)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordDerive records a derivation run.
func (m *otelMetrics) RecordDerive(ctx context.Context, variable string, duration time.Duration, nodes int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("variable", variable),
		attribute.Bool("success", err == nil),
	}

	m.deriveRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.deriveLatency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attrs...))

	if err != nil {
		m.deriveErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("variable", variable)))
		return
	}
	m.deriveNodes.Record(ctx, int64(nodes), metric.WithAttributes(attribute.String("variable", variable)))
}

// RecordSimplify records simplification counters.
func (m *otelMetrics) RecordSimplify(ctx context.Context, folds, freed int) {
	m.folds.Add(ctx, int64(folds))
	m.freed.Add(ctx, int64(freed))
}

// RecordCacheHit records a cache hit.
func (m *otelMetrics) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1)
}

// RecordStoreSave records a record save.
func (m *otelMetrics) RecordStoreSave(ctx context.Context, sizeBytes int64) {
	m.recordSize.Record(ctx, sizeBytes)
}
