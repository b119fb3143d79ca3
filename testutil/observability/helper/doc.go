// Package helper provides spies for the observability hooks of the provenance packages.
//
// The spies capture log records, metrics calls and spans in memory, so tests can assert on the
// instrumentation of the Registry and the Tracker without any OpenTelemetry SDK set up.
package helper
