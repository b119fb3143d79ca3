package tracking

import (
	"context"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

// Option defines a functional option for configuring a Tracker.
type Option func(*Tracker) error

// WithUnknownOriginType sets the operation type recorded for values wrapped without provenance
// (constructed values and values adopted via Wrap with nil provenance). Defaults to "unknown".
func WithUnknownOriginType(operationType string) Option {
	return func(t *Tracker) error {
		if operationType == "" {
			return ErrEmptyUnknownOriginType
		}

		t.unknownOriginType = operationType

		return nil
	}
}

// WithLogger sets the logger for the Tracker.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: every tracked call with its operation id, input count and duration
// Info level: resets
// Error level: tracked results that could not be registered.
func WithLogger(logger provenance.Logger) Option {
	return func(t *Tracker) error {
		t.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Tracker.
// It receives the same messages as the Logger, together with the context of the tracked call's span,
// which allows automatic trace correlation.
func WithContextualLogger(logger provenance.ContextualLogger) Option {
	return func(t *Tracker) error {
		t.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Tracker.
// The collector will receive call durations, counts of tracked operations and counts of failed calls.
func WithMetrics(collector provenance.MetricsCollector) Option {
	return func(t *Tracker) error {
		t.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Tracker.
// Every tracked call is recorded as one span.
func WithTracing(collector provenance.TracingCollector) Option {
	return func(t *Tracker) error {
		t.tracingCollector = collector
		return nil
	}
}

// WithSpanParent sets the context under which tracked-call spans are started.
// Tracked calls have no context of their own, so all spans share this parent. Defaults to context.Background().
func WithSpanParent(ctx context.Context) Option {
	return func(t *Tracker) error {
		if ctx == nil {
			return ErrNilSpanParent
		}

		t.spanParent = ctx

		return nil
	}
}
