package statemachine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "statemachine"

// startDispatchSpan creates a span for a handled dispatch.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startDispatchSpan(ctx context.Context, m *Machine, event string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "event."+event)
	span.SetAttributes(
		attribute.String("machine", m.name),
		attribute.String("machine_id", m.id.String()),
		attribute.String("event", event),
		attribute.String("state", m.current.name),
	)

	return ctx, span
}

// recordTransition adds a transition event to the span in ctx, if any.
func recordTransition(ctx context.Context, t Transition) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.AddEvent("transition", trace.WithAttributes(
		attribute.String("event", t.Event),
		attribute.String("from_state", t.From),
		attribute.String("to_state", t.To),
	))
}

// extractTraceContext extracts trace ID and span ID from context for logging.
func extractTraceContext(ctx context.Context) (traceID, spanID string) {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()

		return spanCtx.TraceID().String(), spanCtx.SpanID().String()
	}

	return "", ""
}
