// Package testing provides testing utilities for code that embeds state
// machines.
package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/amp-labs/fsm/statemachine"
	"github.com/stretchr/testify/require"
)

// TestMachine wraps Machine with testing utilities.
type TestMachine struct {
	*statemachine.Machine

	t     *testing.T
	trace []TraceEntry
}

// TraceEntry records one committed transition.
type TraceEntry struct {
	Timestamp time.Time
	Event     string
	From      string
	To        string
}

// NewTestMachine builds a machine and records every committed transition.
func NewTestMachine(t *testing.T, src statemachine.Source, opts ...statemachine.Option) *TestMachine {
	t.Helper()

	machine, err := statemachine.New(src, opts...)
	require.NoError(t, err, "failed to create machine")

	tm := &TestMachine{
		Machine: machine,
		t:       t,
		trace:   make([]TraceEntry, 0),
	}

	machine.Bind(func(_ context.Context, tr statemachine.Transition) error {
		tm.trace = append(tm.trace, TraceEntry{
			Timestamp: time.Now(),
			Event:     tr.Event,
			From:      tr.From,
			To:        tr.To,
		})

		return nil
	})

	return tm
}

// Fire dispatches event and fails the test on error.
func (tm *TestMachine) Fire(event string, args ...any) any {
	tm.t.Helper()

	value, err := tm.Machine.Fire(context.Background(), event, args...)
	require.NoError(tm.t, err, "event %s failed", event)

	return value
}

// FireErr dispatches event and returns the error for inspection.
func (tm *TestMachine) FireErr(event string, args ...any) error {
	tm.t.Helper()

	_, err := tm.Machine.Fire(context.Background(), event, args...)

	return err
}

// AssertState checks the current state.
func (tm *TestMachine) AssertState(expected string) {
	tm.t.Helper()

	require.Equal(tm.t, expected, tm.MachineState(), "current state should be '%s'", expected)
}

// AssertEvents checks the events offered by the current state, in order.
func (tm *TestMachine) AssertEvents(expected ...string) {
	tm.t.Helper()

	require.Equal(tm.t, expected, tm.MachineEvents(), "events of state '%s'", tm.MachineState())
}

// AssertTransitionTaken checks that a transition from -> to was committed.
func (tm *TestMachine) AssertTransitionTaken(from, to string) {
	tm.t.Helper()

	for _, entry := range tm.trace {
		if entry.From == from && entry.To == to {
			return
		}
	}

	require.Fail(tm.t, fmt.Sprintf("transition from '%s' to '%s' should have been taken", from, to))
}

// AssertNoTransitions checks that nothing has been committed so far.
func (tm *TestMachine) AssertNoTransitions() {
	tm.t.Helper()

	require.Empty(tm.t, tm.trace, "no transition should have been committed")
}

// Path returns the visited states: the first transition's source followed by
// every target.
func (tm *TestMachine) Path() []string {
	if len(tm.trace) == 0 {
		return []string{tm.MachineState()}
	}

	path := []string{tm.trace[0].From}
	for _, entry := range tm.trace {
		path = append(path, entry.To)
	}

	return path
}

// GetTrace returns the recorded transitions.
func (tm *TestMachine) GetTrace() []TraceEntry {
	return tm.trace
}
