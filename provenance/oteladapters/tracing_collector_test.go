package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/operation-provenance-go/provenance/oteladapters"
	"github.com/AntonStoeckl/operation-provenance-go/testutil/observability/helper"
)

func givenTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expected string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			assert.Equal(t, expected, attr.Value.AsString(), "attribute %s", key)
			return
		}
	}

	t.Errorf("span %q has no attribute %q", span.Name, key)
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	collector, exporter := givenTracingCollector()

	ctx, spanCtx := collector.StartSpan(context.Background(), "provenance.track", map[string]string{
		"operation": "translate",
		"call_kind": "method",
	})
	require.NotNil(t, ctx)
	require.NotNil(t, spanCtx)

	spanCtx.AddAttribute("duration_ms", "0.12")
	collector.FinishSpan(spanCtx, "success", map[string]string{"operation_id": "op-2"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "provenance.track", span.Name)
	assertSpanHasAttribute(t, span, "operation", "translate")
	assertSpanHasAttribute(t, span, "call_kind", "method")
	assertSpanHasAttribute(t, span, "duration_ms", "0.12")
	assertSpanHasAttribute(t, span, "operation_id", "op-2")
	assert.Equal(t, codes.Ok, span.Status.Code)
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		expectedCode codes.Code
	}{
		{name: "success", status: "success", expectedCode: codes.Ok},
		{name: "ok", status: "ok", expectedCode: codes.Ok},
		{name: "error", status: "error", expectedCode: codes.Error},
		{name: "unknown_status_is_kept_as_attribute", status: "skipped", expectedCode: codes.Unset},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			collector, exporter := givenTracingCollector()

			_, spanCtx := collector.StartSpan(context.Background(), "provenance.track", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)

			if tc.expectedCode == codes.Unset {
				assertSpanHasAttribute(t, spans[0], "status", tc.status)
			}
		})
	}
}

func Test_TracingCollector_StartSpan_PropagatesParent(t *testing.T) {
	collector, exporter := givenTracingCollector()

	parentCtx, parentSpan := collector.StartSpan(context.Background(), "scene.evaluate", nil)
	_, childSpan := collector.StartSpan(parentCtx, "provenance.track", nil)
	collector.FinishSpan(childSpan, "success", nil)
	collector.FinishSpan(parentSpan, "success", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
}

func Test_TracingCollector_FinishSpan_IgnoresForeignSpanContext(t *testing.T) {
	collector, exporter := givenTracingCollector()

	assert.NotPanics(t, func() {
		collector.FinishSpan(&helper.SpySpanContext{}, "success", nil)
		collector.FinishSpan(nil, "success", nil)
	})
	assert.Empty(t, exporter.GetSpans())
}
