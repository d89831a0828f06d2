package symdiff

import (
	"log/slog"

	"github.com/randalmurphal/symdiff/pkg/symdiff/observability"
	"github.com/randalmurphal/symdiff/pkg/symdiff/simplify"
	"github.com/randalmurphal/symdiff/pkg/symdiff/store"
)

// DefaultCacheSize is the number of derivatives an Engine memoises.
const DefaultCacheSize = 128

// engineConfig holds configuration for an Engine.
type engineConfig struct {
	logger         *slog.Logger
	metricsEnabled bool
	tracingEnabled bool
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tolerance      float64
	maxPasses      int
	maxNodes       int
	cacheSize      int
	store          store.Store
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		tolerance: simplify.DefaultTolerance,
		maxPasses: simplify.DefaultMaxPasses,
		cacheSize: DefaultCacheSize,
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithLogger sets the logger for derivation events.
// Default: no logging.
//
// The logger is enriched with run_id, variable, and order for each derivation.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	engine := symdiff.New(symdiff.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics on the global meter provider.
// Default: disabled.
//
// Metrics recorded:
//   - symdiff.derive.runs: derivation count
//   - symdiff.derive.latency_ms: derivation latency histogram
//   - symdiff.derive.errors: failed derivations
//   - symdiff.derive.nodes: result size histogram
//   - symdiff.simplify.folds / symdiff.simplify.freed: simplification work
//   - symdiff.cache.hits: memoised results served
//   - symdiff.store.record_bytes: persisted record sizes
func WithMetrics(enabled bool) Option {
	return func(c *engineConfig) {
		c.metricsEnabled = enabled
	}
}

// WithMetricsRecorder uses r instead of the global-provider recorder.
// It takes precedence over WithMetrics.
func WithMetricsRecorder(r observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		c.metrics = r
	}
}

// WithTracing enables OpenTelemetry tracing on the global tracer provider.
// Default: disabled.
//
// Each Derive call gets a symdiff.derive span with symdiff.stage.differentiate
// and symdiff.stage.simplify children.
func WithTracing(enabled bool) Option {
	return func(c *engineConfig) {
		c.tracingEnabled = enabled
	}
}

// WithSpanManager uses sm instead of the global-provider span manager.
// It takes precedence over WithTracing.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *engineConfig) {
		c.spans = sm
	}
}

// WithTolerance sets the literal-comparison tolerance used by simplification.
// Default: 1e-7
func WithTolerance(tol float64) Option {
	return func(c *engineConfig) {
		if tol > 0 {
			c.tolerance = tol
		}
	}
}

// WithMaxPasses caps simplification passes per derivative.
// Default: 8
func WithMaxPasses(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.maxPasses = n
		}
	}
}

// WithMaxNodes caps the node count of every derivative tree.
// Default: the source tree's limit.
func WithMaxNodes(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.maxNodes = n
		}
	}
}

// WithCacheSize sets how many derivatives are memoised.
// Default: 128. Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(c *engineConfig) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}

// WithStore persists every derivative Derive and DeriveN produce.
// Default: none. Store failures are logged and do not fail the derivation.
func WithStore(s store.Store) Option {
	return func(c *engineConfig) {
		c.store = s
	}
}
