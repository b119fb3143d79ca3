// Package oteladapters provides OpenTelemetry adapters for the provenance observability interfaces.
//
// The adapters let a Registry and a Tracker report into any OpenTelemetry pipeline:
//
//	tracker, err := tracking.NewTracker(registry,
//		tracking.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("provenance"))),
//		tracking.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("provenance"))),
//		tracking.WithContextualLogger(oteladapters.NewSlogBridgeLogger("provenance")),
//	)
package oteladapters
