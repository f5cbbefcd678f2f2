package postgresengine

import (
	"context"
	"math"
	"time"

	"github.com/libris-project/libris/storage"
)

const (
	metricStatementDuration = "libris_storage_statement_duration_seconds"
	metricStorageErrors     = "libris_storage_errors_total"

	labelOperation = "operation"
	labelStatus    = "status"
	labelErrorType = "error_type"

	statusError = "error"
)

// logStatementWithDuration logs SQL statements with execution time at debug
// level if a logger is configured.
func (g *Gateway) logStatementWithDuration(ctx context.Context, sqlQuery, operation string, duration time.Duration) {
	if g.contextualLogger != nil {
		g.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation,
			logAttrDurationMS, g.toMilliseconds(duration), logAttrQuery, sqlQuery)
		return
	}

	if g.logger != nil {
		g.logger.Debug(logMsgSQLExecuted+operation,
			logAttrDurationMS, g.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (g *Gateway) logOperation(ctx context.Context, msg string, args ...any) {
	if g.contextualLogger != nil {
		g.contextualLogger.InfoContext(ctx, logMsgOperation+msg, args...)
		return
	}

	if g.logger != nil {
		g.logger.Info(logMsgOperation+msg, args...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (g *Gateway) logWarn(ctx context.Context, msg string, args ...any) {
	if g.contextualLogger != nil {
		g.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (g *Gateway) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if g.contextualLogger != nil {
		g.contextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}

	if g.logger != nil {
		g.logger.Error(msg, allArgs...)
	}
}

// recordDurationMetrics records statement duration metrics if a collector is
// configured, preferring the context-aware method when the collector supports it.
func (g *Gateway) recordDurationMetrics(ctx context.Context, operation, status string, duration time.Duration) {
	if g.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    status,
	}

	if contextual, ok := g.metricsCollector.(storage.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metricStatementDuration, duration, labels)
		return
	}

	g.metricsCollector.RecordDuration(metricStatementDuration, duration, labels)
}

// recordErrorMetrics records error counter metrics if a collector is configured.
func (g *Gateway) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if g.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    statusError,
		labelErrorType: errorType,
	}

	if contextual, ok := g.metricsCollector.(storage.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metricStorageErrors, labels)
		return
	}

	g.metricsCollector.IncrementCounter(metricStorageErrors, labels)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (g *Gateway) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
