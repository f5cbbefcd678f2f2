package postgresengine

import (
	"github.com/libris-project/libris/storage"
)

// Option defines a functional option for configuring the Gateway.
type Option func(*Gateway) error

// WithTableNames sets the book and person table names for the Gateway.
func WithTableNames(bookTable, personTable string) Option {
	return func(g *Gateway) error {
		if bookTable == "" || personTable == "" {
			return storage.ErrEmptyTableName
		}

		g.bookTable = bookTable
		g.personTable = personTable

		return nil
	}
}

// WithLogger sets the logger for the Gateway.
// The logger will receive messages at different levels based on the logger's
// configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: record counts and durations (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: critical failures that cause operation failures.
func WithLogger(logger storage.Logger) Option {
	return func(g *Gateway) error {
		g.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Gateway.
// The contextual logger receives log messages with context information,
// enabling automatic trace/span correlation when tracing is configured.
func WithContextualLogger(logger storage.ContextualLogger) Option {
	return func(g *Gateway) error {
		g.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Gateway.
// The collector will receive statement durations and error counts.
func WithMetrics(collector storage.MetricsCollector) Option {
	return func(g *Gateway) error {
		g.metricsCollector = collector
		return nil
	}
}
