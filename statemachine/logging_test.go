package statemachine

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
)

// recordingLogger collects Logger calls.
type recordingLogger struct {
	dispatched  []string
	ignored     []string
	transitions []Transition
}

func (l *recordingLogger) EventDispatched(_ context.Context, _, event, state string) {
	l.dispatched = append(l.dispatched, state+"."+event)
}

func (l *recordingLogger) EventIgnored(_ context.Context, _, event, state string) {
	l.ignored = append(l.ignored, state+"."+event)
}

func (l *recordingLogger) TransitionExecuted(_ context.Context, _ string, t Transition) {
	l.transitions = append(l.transitions, t)
}

func TestLoggerCalls(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	door := mustNew(t, doorFuncs(), WithLogger(logger))

	fire(t, door, "open")
	fire(t, door, "close")

	assert.Equal(t, []string{"OPEN.open"}, logger.ignored)
	assert.Equal(t, []string{"OPEN.close"}, logger.dispatched)
	assert.Equal(t, []Transition{{Event: "close", From: "OPEN", To: "CLOSED"}}, logger.transitions)
}

func TestDefaultLoggerOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	door := mustNew(t, doorFuncs(), WithName("logged-door"), WithLogger(logger))

	fire(t, door, "close")

	out := buf.String()
	assert.Contains(t, out, "Event dispatched")
	assert.Contains(t, out, "Transition executed")
	assert.Contains(t, out, "machine=logged-door")
	assert.Contains(t, out, "from=OPEN")
	assert.Contains(t, out, "to=CLOSED")
}

func TestDefaultLoggerWithTestHandler(t *testing.T) {
	t.Parallel()

	door := mustNew(t, doorFuncs(), WithLogger(NewSlogLogger(slogt.New(t))))

	fire(t, door, "close")
	fire(t, door, "close")
	assert.Equal(t, "CLOSED", door.MachineState())
}

func TestNewSlogLoggerNil(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, NewSlogLogger(nil).logger)
	assert.NotNil(t, NewDefaultLogger().logger)
}
