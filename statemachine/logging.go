package statemachine

import (
	"context"
	"log/slog"
)

// Logger provides logging hooks for machine activity.
type Logger interface {
	EventDispatched(ctx context.Context, machine, event, state string)
	EventIgnored(ctx context.Context, machine, event, state string)
	TransitionExecuted(ctx context.Context, machine string, t Transition)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger writing to slog.Default().
func NewDefaultLogger() *DefaultLogger {
	return NewSlogLogger(slog.Default())
}

// NewSlogLogger creates a logger writing to the given slog logger.
func NewSlogLogger(logger *slog.Logger) *DefaultLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultLogger{
		logger: logger,
	}
}

func (l *DefaultLogger) EventDispatched(ctx context.Context, machine, event, state string) {
	l.logger.DebugContext(ctx, "Event dispatched", withTrace(ctx,
		"machine", machine,
		"event", event,
		"state", state,
	)...)
}

func (l *DefaultLogger) EventIgnored(ctx context.Context, machine, event, state string) {
	l.logger.DebugContext(ctx, "Event ignored", withTrace(ctx,
		"machine", machine,
		"event", event,
		"state", state,
	)...)
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, machine string, t Transition) {
	l.logger.InfoContext(ctx, "Transition executed", withTrace(ctx,
		"machine", machine,
		"event", t.Event,
		"from", t.From,
		"to", t.To,
	)...)
}

// withTrace appends trace and span IDs when ctx carries a valid span.
func withTrace(ctx context.Context, fields ...any) []any {
	traceID, spanID := extractTraceContext(ctx)
	if traceID == "" {
		return fields
	}

	return append(fields, "trace_id", traceID, "span_id", spanID)
}
