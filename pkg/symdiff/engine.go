package symdiff

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/randalmurphal/symdiff/pkg/symdiff/diff"
	"github.com/randalmurphal/symdiff/pkg/symdiff/observability"
	"github.com/randalmurphal/symdiff/pkg/symdiff/sexpr"
	"github.com/randalmurphal/symdiff/pkg/symdiff/simplify"
	"github.com/randalmurphal/symdiff/pkg/symdiff/store"
	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

// Stage names used in DerivationError, spans and logs.
const (
	stageDifferentiate = "differentiate"
	stageSimplify      = "simplify"
	stageDerive        = "derive"
)

// Engine runs derivations. It is safe for concurrent use.
type Engine struct {
	cfg     engineConfig
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	cache   *lru.Cache[cacheKey, *tree.Tree]
}

// cacheKey identifies a simplified derivative. maxNodes is the limit the
// derivative was built under, so a tighter limit never reads a larger result.
type cacheKey struct {
	source    string
	variable  string
	tolerance float64
	maxNodes  int
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		cfg:     cfg,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	switch {
	case cfg.metrics != nil:
		e.metrics = cfg.metrics
	case cfg.metricsEnabled:
		e.metrics = observability.NewMetricsRecorder()
	}
	switch {
	case cfg.spans != nil:
		e.spans = cfg.spans
	case cfg.tracingEnabled:
		e.spans = observability.NewSpanManager()
	}
	if cfg.cacheSize > 0 {
		// lru.New only fails for a non-positive size.
		e.cache, _ = lru.New[cacheKey, *tree.Tree](cfg.cacheSize)
	}
	return e
}

// Differentiate returns the unsimplified derivative of src's root tree.
// src is not modified.
func (e *Engine) Differentiate(ctx context.Context, src *tree.Tree, variable string) (*tree.Tree, error) {
	return e.differentiate(ctx, src, variable)
}

// Simplify simplifies t in place until a pass changes nothing or the pass
// limit is reached.
func (e *Engine) Simplify(ctx context.Context, t *tree.Tree) (simplify.Report, error) {
	return e.simplifyLogged(ctx, e.cfg.logger, t, "")
}

// Derive returns the simplified derivative of src's root tree.
// src is not modified.
//
// Results are memoised by the text form of src, the variable and the
// tolerance. Every call returns a tree the caller owns.
func (e *Engine) Derive(ctx context.Context, src *tree.Tree, variable string) (*tree.Tree, error) {
	results, err := e.DeriveN(ctx, src, variable, 1)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// DeriveN returns the first order derivatives of src, each simplified:
// results[0] is d/dv src, results[1] is d/dv results[0], and so on.
func (e *Engine) DeriveN(ctx context.Context, src *tree.Tree, variable string, order int) ([]*tree.Tree, error) {
	if order < 1 {
		return nil, &DerivationError{Variable: variable, Stage: stageDerive, Err: ErrInvalidOrder}
	}
	if src == nil {
		return nil, &DerivationError{Variable: variable, Stage: stageDerive, Err: ErrNilTree}
	}

	// Text form of the original expression, for records.
	source, sourceErr := sexpr.FormatTree(src)
	rec := recordSource{text: source, err: sourceErr}

	results := make([]*tree.Tree, 0, order)
	cur := src
	for i := 1; i <= order; i++ {
		d, err := e.derive(ctx, cur, variable, i, rec)
		if err != nil {
			return nil, err
		}
		results = append(results, d)
		cur = d
	}
	return results, nil
}

// recordSource is the text form of the expression a DeriveN call started
// from, or the reason it has none.
type recordSource struct {
	text string
	err  error
}

func (e *Engine) derive(ctx context.Context, src *tree.Tree, variable string, order int, source recordSource) (*tree.Tree, error) {
	runID := uuid.NewString()
	logger := observability.EnrichLogger(e.cfg.logger, runID, variable, order)
	start := time.Now()

	ctx, span := e.spans.StartDeriveSpan(ctx, variable, runID)
	observability.LogDeriveStart(logger, runID, variable)

	result, stage, err := e.compute(ctx, logger, src, variable)

	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000
	nodes := 0
	if err == nil {
		nodes = result.Size(result.Root())
	}
	e.metrics.RecordDerive(ctx, variable, elapsed, nodes, err)
	e.spans.EndSpanWithError(span, err)

	if err != nil {
		observability.LogDeriveError(logger, runID, err, durationMs, stage)
		return nil, err
	}
	observability.LogDeriveComplete(logger, runID, durationMs, nodes)

	e.save(ctx, logger, source, variable, order, result, nodes)
	return result, nil
}

// compute differentiates and simplifies src, or serves the result from the
// cache. On failure it also returns the failing stage.
func (e *Engine) compute(ctx context.Context, logger *slog.Logger, src *tree.Tree, variable string) (*tree.Tree, string, error) {
	key, cacheable := e.key(src, variable)
	if cacheable {
		if cached, ok := e.cache.Get(key); ok {
			clone, err := cached.Clone()
			if err != nil {
				return nil, stageDerive, &DerivationError{Variable: variable, Stage: stageDerive, Err: err}
			}
			e.metrics.RecordCacheHit(ctx)
			e.spans.AddSpanEvent(ctx, "cache.hit")
			observability.LogCacheHit(logger, variable)
			return clone, "", nil
		}
	}

	d, err := e.differentiate(ctx, src, variable)
	if err != nil {
		return nil, stageDifferentiate, err
	}
	if _, err := e.simplifyLogged(ctx, logger, d, variable); err != nil {
		return nil, stageSimplify, err
	}

	if cacheable {
		if clone, err := d.Clone(); err == nil {
			e.cache.Add(key, clone)
		}
	}
	return d, "", nil
}

// key returns the cache key for src, or false when caching is off or src has
// no text form.
func (e *Engine) key(src *tree.Tree, variable string) (cacheKey, bool) {
	if e.cache == nil {
		return cacheKey{}, false
	}
	text, err := sexpr.FormatTree(src)
	if err != nil {
		return cacheKey{}, false
	}
	maxNodes := e.cfg.maxNodes
	if maxNodes <= 0 {
		maxNodes = src.MaxNodes()
	}
	return cacheKey{source: text, variable: variable, tolerance: e.cfg.tolerance, maxNodes: maxNodes}, true
}

func (e *Engine) differentiate(ctx context.Context, src *tree.Tree, variable string) (*tree.Tree, error) {
	if src == nil {
		return nil, &DerivationError{Variable: variable, Stage: stageDifferentiate, Err: ErrNilTree}
	}
	if err := ctx.Err(); err != nil {
		return nil, &DerivationError{Variable: variable, Stage: stageDifferentiate, Err: err}
	}

	_, span := e.spans.StartStageSpan(ctx, stageDifferentiate)
	var opts []diff.Option
	if e.cfg.maxNodes > 0 {
		opts = append(opts, diff.WithMaxNodes(e.cfg.maxNodes))
	}
	d, err := diff.Differentiate(src, src.Root(), variable, opts...)
	e.spans.EndSpanWithError(span, err)
	if err != nil {
		return nil, &DerivationError{Variable: variable, Stage: stageDifferentiate, Err: err}
	}
	return d, nil
}

func (e *Engine) simplifyLogged(ctx context.Context, logger *slog.Logger, t *tree.Tree, variable string) (simplify.Report, error) {
	if t == nil {
		return simplify.Report{}, &DerivationError{Variable: variable, Stage: stageSimplify, Err: ErrNilTree}
	}
	if err := ctx.Err(); err != nil {
		return simplify.Report{}, &DerivationError{Variable: variable, Stage: stageSimplify, Err: err}
	}

	_, span := e.spans.StartStageSpan(ctx, stageSimplify)
	report, err := simplify.Fixpoint(t,
		simplify.WithTolerance(e.cfg.tolerance),
		simplify.WithMaxPasses(e.cfg.maxPasses),
	)
	e.spans.EndSpanWithError(span, err)

	e.metrics.RecordSimplify(ctx, report.Folds, report.Freed)
	observability.LogSimplifyPass(logger, report.Passes, report.Folds, report.Rewrites, report.Freed)
	if err != nil {
		return report, &DerivationError{Variable: variable, Stage: stageSimplify, Err: err}
	}
	return report, nil
}

// save persists a derivative when a store is configured. Failures are logged.
// Nothing is saved when the source expression has no text form.
func (e *Engine) save(ctx context.Context, logger *slog.Logger, source recordSource, variable string, order int, result *tree.Tree, nodes int) {
	if e.cfg.store == nil {
		return
	}
	if source.err != nil {
		observability.LogStoreError(logger, "", "format source", source.err)
		return
	}
	text, err := sexpr.FormatTree(result)
	if err != nil {
		observability.LogStoreError(logger, "", "format", err)
		return
	}

	rec := store.NewRecord(source.text, variable, order, text, nodes)
	if err := e.cfg.store.Save(rec); err != nil {
		observability.LogStoreError(logger, rec.ID, "save", err)
		return
	}

	data, err := rec.Marshal()
	if err != nil {
		return
	}
	e.metrics.RecordStoreSave(ctx, int64(len(data)))
	observability.LogRecordSaved(logger, rec.ID, len(data))
}
