// Package zapadapters provides a zap backed implementation of the provenance Logger interfaces.
package zapadapters

import (
	"context"

	"go.uber.org/zap"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

// Logger implements provenance.Logger and provenance.ContextualLogger on top of a zap.SugaredLogger.
// Arguments are slog-style key-value pairs and are passed on as structured fields.
type Logger struct {
	sugared *zap.SugaredLogger
}

// NewLogger creates a Logger writing to the given zap.Logger.
func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{sugared: logger.Sugar()}
}

// Debug logs a debug message with structured fields.
func (l *Logger) Debug(msg string, args ...any) {
	l.sugared.Debugw(msg, args...)
}

// Info logs an info message with structured fields.
func (l *Logger) Info(msg string, args ...any) {
	l.sugared.Infow(msg, args...)
}

// Warn logs a warning message with structured fields.
func (l *Logger) Warn(msg string, args ...any) {
	l.sugared.Warnw(msg, args...)
}

// Error logs an error message with structured fields.
func (l *Logger) Error(msg string, args ...any) {
	l.sugared.Errorw(msg, args...)
}

// DebugContext logs a debug message. zap has no notion of a context, so ctx is ignored.
func (l *Logger) DebugContext(_ context.Context, msg string, args ...any) {
	l.Debug(msg, args...)
}

// InfoContext logs an info message. zap has no notion of a context, so ctx is ignored.
func (l *Logger) InfoContext(_ context.Context, msg string, args ...any) {
	l.Info(msg, args...)
}

// WarnContext logs a warning message. zap has no notion of a context, so ctx is ignored.
func (l *Logger) WarnContext(_ context.Context, msg string, args ...any) {
	l.Warn(msg, args...)
}

// ErrorContext logs an error message. zap has no notion of a context, so ctx is ignored.
func (l *Logger) ErrorContext(_ context.Context, msg string, args ...any) {
	l.Error(msg, args...)
}

var _ provenance.Logger = (*Logger)(nil)
var _ provenance.ContextualLogger = (*Logger)(nil)
