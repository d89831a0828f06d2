// Package observability provides structured logging, metrics and tracing
// for derivation runs.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds derivation context to a logger.
// Returns a new logger with run_id, variable, and order fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", "x", 2)
//	enriched.Info("simplifying") // includes run_id, variable, order
func EnrichLogger(logger *slog.Logger, runID, variable string, order int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("variable", variable),
		slog.Int("order", order),
	)
}

// LogDeriveStart logs the start of a derivation run.
func LogDeriveStart(logger *slog.Logger, runID, variable string) {
	if logger == nil {
		return
	}
	logger.Info("derivation starting",
		slog.String("run_id", runID),
		slog.String("variable", variable),
	)
}

// LogDeriveComplete logs a successful derivation.
func LogDeriveComplete(logger *slog.Logger, runID string, durationMs float64, nodeCount int) {
	if logger == nil {
		return
	}
	logger.Info("derivation completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("nodes", nodeCount),
	)
}

// LogDeriveError logs a failed derivation and the stage that failed.
func LogDeriveError(logger *slog.Logger, runID string, err error, durationMs float64, stage string) {
	if logger == nil {
		return
	}
	logger.Error("derivation failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.String("stage", stage),
	)
}

// LogSimplifyPass logs the counters of a simplification.
func LogSimplifyPass(logger *slog.Logger, passes, folds, rewrites, freed int) {
	if logger == nil {
		return
	}
	logger.Debug("simplified",
		slog.Int("passes", passes),
		slog.Int("folds", folds),
		slog.Int("rewrites", rewrites),
		slog.Int("freed", freed),
	)
}

// LogCacheHit logs a derivative served from the cache.
func LogCacheHit(logger *slog.Logger, variable string) {
	if logger == nil {
		return
	}
	logger.Debug("derivative cache hit",
		slog.String("variable", variable),
	)
}

// LogRecordSaved logs a persisted derivation record.
func LogRecordSaved(logger *slog.Logger, id string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("record saved",
		slog.String("record_id", id),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogStoreError logs a store failure (non-fatal).
func LogStoreError(logger *slog.Logger, id string, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("store operation failed",
		slog.String("record_id", id),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
