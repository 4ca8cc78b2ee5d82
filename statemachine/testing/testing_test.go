package testing

import (
	"context"
	"errors"
	"testing"

	"github.com/amp-labs/fsm/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestMachine(t *testing.T) {
	t.Parallel()

	machine := NewTestMachine(t, CommonTestDefinitions.Door())

	assert.NotNil(t, machine.Machine)
	assert.Empty(t, machine.GetTrace())
	machine.AssertState(StateOpen)
	machine.AssertEvents("close")
	machine.AssertNoTransitions()
	assert.Equal(t, []string{StateOpen}, machine.Path())
}

func TestTestMachineTrace(t *testing.T) {
	t.Parallel()

	machine := NewTestMachine(t, CommonTestDefinitions.LockableDoor())

	machine.Fire("toggle")
	machine.Fire("lock")
	machine.Fire("unlock")
	machine.Fire("toggle")

	machine.AssertState(StateOpen)
	machine.AssertTransitionTaken(StateOpen, StateClosed)
	machine.AssertTransitionTaken(StateClosed, StateLocked)
	machine.AssertTransitionTaken(StateLocked, StateClosed)
	assert.Equal(t, []string{StateOpen, StateClosed, StateLocked, StateClosed, StateOpen}, machine.Path())

	trace := machine.GetTrace()
	require.Len(t, trace, 4)
	assert.Equal(t, "lock", trace[1].Event)
}

func TestFireErr(t *testing.T) {
	t.Parallel()

	machine := NewTestMachine(t, CommonTestDefinitions.Door(), statemachine.WithInvalidEventErrors(true))

	err := machine.FireErr("open")
	require.ErrorIs(t, err, statemachine.ErrInvalidEvent)
	machine.AssertState(StateOpen)
}

func TestScenarios(t *testing.T) {
	t.Parallel()

	RunScenario(t, DoorRoundTripScenario())
	RunScenario(t, IgnoredEventScenario())
	RunScenario(t, StrictEventScenario())
	RunScenario(t, TurnstileScenario())
}

func TestDoorFuncsMatchesShorthand(t *testing.T) {
	t.Parallel()

	shorthand := NewTestMachine(t, CommonTestDefinitions.Door())
	funcs := NewTestMachine(t, CommonTestDefinitions.DoorFuncs())

	for _, event := range []string{"close", "close", "open", "open", "close"} {
		shorthand.Fire(event)
		funcs.Fire(event)

		assert.Equal(t, shorthand.MachineState(), funcs.MachineState())
		assert.Equal(t, shorthand.MachineEvents(), funcs.MachineEvents())
	}
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	hook := rec.Hook("hook")
	listener := rec.Listener("listener")

	tr := statemachine.Transition{Event: "e", From: "A", To: "B"}

	require.NoError(t, hook(context.Background(), nil, tr))
	require.NoError(t, listener(context.Background(), tr))

	assert.Equal(t, []string{"hook", "listener"}, rec.Labels())
	assert.Equal(t, "hook(e,A,B)", rec.Calls()[0].String())

	rec.Reset()
	assert.Empty(t, rec.Labels())
}

func TestInstrument(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	machine := NewTestMachine(t, Instrument(CommonTestDefinitions.Door(), rec))

	machine.Fire("close")

	assert.Equal(t, []string{
		"OPEN.onBefore.close",
		"OPEN.onAfter.close",
		"OPEN.onLeave",
		"CLOSED.onEnter",
	}, rec.Labels())
}

func TestFailingHookStopsTransition(t *testing.T) {
	t.Parallel()

	errJammed := errors.New("jammed")
	rec := NewRecorder()

	def := CommonTestDefinitions.Door().
		Extend(StateClosed, statemachine.OnEnter(rec.FailingHook("CLOSED.onEnter", errJammed)))
	machine := NewTestMachine(t, def, statemachine.WithOnTransition(rec.Listener("listener")))

	err := machine.FireErr("close")
	require.ErrorIs(t, err, errJammed)

	machine.AssertState(StateClosed)
	assert.Equal(t, []string{"CLOSED.onEnter"}, rec.Labels())
	assert.Equal(t, statemachine.Transition{Event: "close", From: StateOpen, To: StateClosed}, rec.Calls()[0].Transition)
}
