package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer creates a test tracer with an in-memory exporter.
func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
	)

	oldProvider := otel.GetTracerProvider()

	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(oldProvider)
		_ = tp.Shutdown(context.Background())
	})

	return exporter
}

func spanAttributes(span tracetest.SpanStub) map[string]any {
	attrMap := make(map[string]any)
	for _, attr := range span.Attributes {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}

	return attrMap
}

// Note: Cannot use t.Parallel() because setupTestTracer modifies the global
// OTEL tracer provider.
//
//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestDispatchSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	door := mustNew(t, doorFuncs(), WithName("traced-door"))
	fire(t, door, "close")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "event.close", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)

	attrs := spanAttributes(span)
	assert.Equal(t, "traced-door", attrs["machine"])
	assert.Equal(t, door.ID().String(), attrs["machine_id"])
	assert.Equal(t, "close", attrs["event"])
	assert.Equal(t, "OPEN", attrs["state"])

	require.Len(t, span.Events, 1)
	assert.Equal(t, "transition", span.Events[0].Name)
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestDispatchSpanError(t *testing.T) {
	exporter := setupTestTracer(t)

	door := mustNew(t, Definition{DefineState("OPEN", On("close", "NOWHERE"))})

	_, err := door.Fire(context.Background(), "close")
	require.ErrorIs(t, err, ErrInvalidState)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1, "no transition is recorded")
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestIgnoredEventHasNoSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	door := mustNew(t, doorFuncs())
	fire(t, door, "open")

	assert.Empty(t, exporter.GetSpans())
}

//nolint:paralleltest // Test modifies global OTEL tracer provider
func TestExtractTraceContext(t *testing.T) {
	setupTestTracer(t)

	traceID, spanID := extractTraceContext(context.Background())
	assert.Empty(t, traceID)
	assert.Empty(t, spanID)

	ctx, span := otel.Tracer("test").Start(context.Background(), "test")
	defer span.End()

	traceID, spanID = extractTraceContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	assert.Equal(t, span.SpanContext().SpanID().String(), spanID)
}
