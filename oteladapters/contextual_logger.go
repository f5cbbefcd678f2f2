// Package oteladapters provides OpenTelemetry adapters for the storage
// observability interfaces. They enable plug-and-play observability for
// users who do not want to implement the interfaces themselves.
package oteladapters

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/libris-project/libris/storage"
)

// SlogBridgeLogger implements storage.ContextualLogger using the
// OpenTelemetry slog bridge. This is the recommended implementation as it
// provides automatic trace correlation and works seamlessly with Go's
// standard log/slog package.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger creates a new contextual logger using the OpenTelemetry
// slog bridge. The logger uses the global OpenTelemetry LoggerProvider and
// correlates log records with active traces automatically.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogBridgeLoggerWithHandler creates a new contextual logger using the
// provided slog.Handler as-is, without OpenTelemetry trace correlation. Use
// NewSlogBridgeLogger for correlation.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: slog.New(handler)}
}

// DebugContext logs a debug message with context.
func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

// InfoContext logs an info message with context.
func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

// WarnContext logs a warning message with context.
func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

// ErrorContext logs an error message with context.
func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

// Ensure SlogBridgeLogger implements storage.ContextualLogger.
var _ storage.ContextualLogger = (*SlogBridgeLogger)(nil)
