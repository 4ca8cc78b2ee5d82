package testing

import (
	"testing"

	"github.com/amp-labs/fsm/statemachine"
	"github.com/stretchr/testify/require"
)

// Step is one event dispatch within a scenario.
type Step struct {
	Event     string
	Args      []any
	WantState string
	WantValue any   // nil means the machine itself is expected
	WantErr   error // matched with errors.Is
}

// TestScenario represents a complete test scenario for a state machine.
type TestScenario struct {
	Name         string
	Source       statemachine.Source
	Options      []statemachine.Option
	InitialState string
	Steps        []Step
}

// RunScenario executes a scenario step by step.
func RunScenario(t *testing.T, scenario TestScenario) {
	t.Helper()
	t.Run(scenario.Name, func(t *testing.T) {
		machine := NewTestMachine(t, scenario.Source, scenario.Options...)

		if scenario.InitialState != "" {
			machine.AssertState(scenario.InitialState)
		}

		for i, step := range scenario.Steps {
			value, err := machine.Machine.Fire(t.Context(), step.Event, step.Args...)

			if step.WantErr != nil {
				require.ErrorIs(t, err, step.WantErr, "step %d (%s)", i, step.Event)
			} else {
				require.NoError(t, err, "step %d (%s)", i, step.Event)

				if step.WantValue == nil {
					require.Same(t, machine.Machine, value, "step %d (%s) should return the machine", i, step.Event)
				} else {
					require.Equal(t, step.WantValue, value, "step %d (%s)", i, step.Event)
				}
			}

			if step.WantState != "" {
				require.Equal(t, step.WantState, machine.MachineState(), "step %d (%s)", i, step.Event)
			}
		}
	})
}

// DoorRoundTripScenario closes and reopens the door.
func DoorRoundTripScenario() TestScenario {
	return TestScenario{
		Name:         "Door Round Trip",
		Source:       CommonTestDefinitions.Door(),
		InitialState: StateOpen,
		Steps: []Step{
			{Event: "close", WantState: StateClosed},
			{Event: "open", WantState: StateOpen},
		},
	}
}

// IgnoredEventScenario fires an event the current state does not own.
func IgnoredEventScenario() TestScenario {
	return TestScenario{
		Name:         "Ignored Event",
		Source:       CommonTestDefinitions.Door(),
		InitialState: StateOpen,
		Steps: []Step{
			{Event: "open", WantState: StateOpen},
			{Event: "close", WantState: StateClosed},
		},
	}
}

// StrictEventScenario fires an event the current state does not own with
// invalid-event errors enabled.
func StrictEventScenario() TestScenario {
	return TestScenario{
		Name:         "Strict Event",
		Source:       CommonTestDefinitions.Door(),
		Options:      []statemachine.Option{statemachine.WithInvalidEventErrors(true)},
		InitialState: StateOpen,
		Steps: []Step{
			{Event: "open", WantErr: statemachine.ErrInvalidEvent, WantState: StateOpen},
		},
	}
}

// TurnstileScenario exercises return values and stay semantics.
func TurnstileScenario() TestScenario {
	return TestScenario{
		Name:         "Turnstile",
		Source:       CommonTestDefinitions.Turnstile(),
		InitialState: StateLocked,
		Steps: []Step{
			{Event: "push", WantState: StateLocked},
			{Event: "coin", Args: []any{0}, WantValue: "rejected", WantState: StateLocked},
			{Event: "coin", Args: []any{1}, WantValue: "accepted", WantState: StateOpen},
			{Event: "coin", Args: []any{1}, WantValue: "refunded", WantState: StateOpen},
			{Event: "push", WantState: StateLocked},
		},
	}
}
