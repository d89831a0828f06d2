package symdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/symdiff/pkg/symdiff/observability"
	"github.com/randalmurphal/symdiff/pkg/symdiff/store"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg := defaultEngineConfig()
	assert.Equal(t, 1e-7, cfg.tolerance)
	assert.Equal(t, 8, cfg.maxPasses)
	assert.Equal(t, 0, cfg.maxNodes)
	assert.Equal(t, DefaultCacheSize, cfg.cacheSize)
	assert.Nil(t, cfg.logger)
	assert.Nil(t, cfg.store)
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	cfg := defaultEngineConfig()
	for _, opt := range []Option{
		WithTolerance(0),
		WithTolerance(-1),
		WithMaxPasses(0),
		WithMaxNodes(-5),
		WithCacheSize(-1),
	} {
		opt(&cfg)
	}
	assert.Equal(t, defaultEngineConfig(), cfg)
}

func TestOptionsApply(t *testing.T) {
	records := store.NewMemoryStore()
	cfg := defaultEngineConfig()
	for _, opt := range []Option{
		WithTolerance(1e-3),
		WithMaxPasses(2),
		WithMaxNodes(100),
		WithCacheSize(0),
		WithMetrics(true),
		WithTracing(true),
		WithStore(records),
	} {
		opt(&cfg)
	}
	assert.Equal(t, 1e-3, cfg.tolerance)
	assert.Equal(t, 2, cfg.maxPasses)
	assert.Equal(t, 100, cfg.maxNodes)
	assert.Equal(t, 0, cfg.cacheSize)
	assert.True(t, cfg.metricsEnabled)
	assert.True(t, cfg.tracingEnabled)
	assert.Same(t, records, cfg.store)
}

func TestNewSelectsRecorders(t *testing.T) {
	e := New()
	assert.IsType(t, observability.NoopMetrics{}, e.metrics)
	assert.IsType(t, observability.NoopSpanManager{}, e.spans)
	assert.NotNil(t, e.cache)

	e = New(WithCacheSize(0), WithSpanManager(observability.NoopSpanManager{}), WithTracing(true))
	assert.Nil(t, e.cache)
	assert.IsType(t, observability.NoopSpanManager{}, e.spans, "explicit manager wins over WithTracing")
}
