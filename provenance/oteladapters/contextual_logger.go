package oteladapters

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

// SlogBridgeLogger is a provenance.ContextualLogger on top of a *slog.Logger.
//
// Built with NewSlogBridgeLogger, records go through the OpenTelemetry slog bridge and carry the trace and span ids
// of the tracked call they were logged for.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger creates a contextual logger on the OpenTelemetry slog bridge, scoped to the instrumentation name.
// Without otelslog.WithLoggerProvider the global LoggerProvider receives the records.
func NewSlogBridgeLogger(name string, options ...otelslog.Option) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name, options...)}
}

// NewSlogBridgeLoggerWithHandler creates a contextual logger writing to the given slog.Handler,
// trace correlation is up to the handler.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: slog.New(handler)}
}

// With returns a logger that adds the given key-value pairs to every record, e.g. the command a tracker serves.
func (l *SlogBridgeLogger) With(args ...any) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: l.logger.With(args...)}
}

func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.Log(ctx, slog.LevelDebug, msg, args...)
}

func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.Log(ctx, slog.LevelInfo, msg, args...)
}

func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.Log(ctx, slog.LevelWarn, msg, args...)
}

func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.Log(ctx, slog.LevelError, msg, args...)
}

var _ provenance.ContextualLogger = (*SlogBridgeLogger)(nil)

// OTelLogger is a provenance.ContextualLogger emitting records through the OpenTelemetry logs API directly.
//
// Arguments follow the slog conventions (alternating keys and values, or slog.Attr) and keep their kind:
// integers, floats and booleans become typed attributes, everything else is rendered as a string.
type OTelLogger struct {
	logger log.Logger
}

// NewOTelLogger creates a contextual logger emitting to the given OpenTelemetry logger.
func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger}
}

func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, slog.LevelDebug, msg, args)
}

func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, slog.LevelInfo, msg, args)
}

func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, slog.LevelWarn, msg, args)
}

func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, slog.LevelError, msg, args)
}

func (l *OTelLogger) emit(ctx context.Context, level slog.Level, msg string, args []any) {
	severity := severityOf(level)
	if !l.logger.Enabled(ctx, log.EnabledParameters{Severity: severity}) {
		return
	}

	// slog.Record pairs up the arguments, a key without a value ends up under "!BADKEY" as slog does it.
	pairs := slog.NewRecord(time.Time{}, level, msg, 0)
	pairs.Add(args...)

	record := log.Record{}
	record.SetTimestamp(time.Now())
	record.SetSeverity(severity)
	record.SetSeverityText(level.String())
	record.SetBody(log.StringValue(msg))

	pairs.Attrs(func(attr slog.Attr) bool {
		record.AddAttributes(keyValueOf(attr))
		return true
	})

	l.logger.Emit(ctx, record)
}

var _ provenance.ContextualLogger = (*OTelLogger)(nil)

func severityOf(level slog.Level) log.Severity {
	switch {
	case level >= slog.LevelError:
		return log.SeverityError
	case level >= slog.LevelWarn:
		return log.SeverityWarn
	case level >= slog.LevelInfo:
		return log.SeverityInfo
	default:
		return log.SeverityDebug
	}
}

func keyValueOf(attr slog.Attr) log.KeyValue {
	value := attr.Value.Resolve()

	switch value.Kind() {
	case slog.KindInt64:
		return log.Int64(attr.Key, value.Int64())
	case slog.KindFloat64:
		return log.Float64(attr.Key, value.Float64())
	case slog.KindBool:
		return log.Bool(attr.Key, value.Bool())
	default:
		return log.String(attr.Key, value.String())
	}
}
