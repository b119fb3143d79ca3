package provenance

import (
	"time"
)

// Option defines a functional option for configuring a Registry.
type Option func(*Registry) error

// WithIDFormat sets the IDFormat used by GenerateID.
func WithIDFormat(format IDFormat) Option {
	return func(r *Registry) error {
		if format == nil {
			return ErrNilIDFormat
		}

		r.idFormat = format

		return nil
	}
}

// WithClock sets the clock used to stamp registered nodes.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) error {
		if now == nil {
			return ErrNilClock
		}

		r.now = now

		return nil
	}
}

// WithLogger sets the logger for the Registry.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: every registered node, tree reconstructions
// Info level: resets
// Error level: rejected registrations.
func WithLogger(logger Logger) Option {
	return func(r *Registry) error {
		r.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Registry.
// The collector will receive the registry size after every registration and reset,
// and a counter of rejected registrations.
func WithMetrics(collector MetricsCollector) Option {
	return func(r *Registry) error {
		r.metricsCollector = collector
		return nil
	}
}
