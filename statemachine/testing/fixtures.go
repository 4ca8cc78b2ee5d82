package testing

import (
	"context"

	"github.com/amp-labs/fsm/statemachine"
)

// Fixture state names.
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
	StateLocked = "LOCKED"
)

// CommonTestDefinitions provides ready-made states descriptions.
var CommonTestDefinitions = commonTestDefinitions{} //nolint:gochecknoglobals

type commonTestDefinitions struct{}

// Door is the two-state door using shorthand transitions.
func (commonTestDefinitions) Door() statemachine.Definition {
	return statemachine.Definition{
		statemachine.DefineState(StateOpen, statemachine.On("close", StateClosed)),
		statemachine.DefineState(StateClosed, statemachine.On("open", StateOpen)),
	}
}

// DoorFuncs is the two-state door using actions that return states.
func (commonTestDefinitions) DoorFuncs() statemachine.Definition {
	return statemachine.Definition{
		statemachine.DefineState(StateOpen,
			statemachine.On("close", statemachine.ActionFunc(
				func(_ context.Context, reg *statemachine.Registry, _ ...any) any {
					return reg.State(StateClosed)
				})),
		),
		statemachine.DefineState(StateClosed,
			statemachine.On("open", statemachine.ActionFunc(
				func(_ context.Context, reg *statemachine.Registry, _ ...any) any {
					return reg.State(StateOpen)
				})),
		),
	}
}

// LockableDoor shares the "toggle" event between OPEN and CLOSED and adds a
// LOCKED state reachable from CLOSED.
func (commonTestDefinitions) LockableDoor() statemachine.Definition {
	return statemachine.Definition{
		statemachine.DefineState(StateOpen,
			statemachine.On("toggle", StateClosed),
		),
		statemachine.DefineState(StateClosed,
			statemachine.On("toggle", StateOpen),
			statemachine.On("lock", StateLocked),
		),
		statemachine.DefineState(StateLocked,
			statemachine.On("unlock", StateClosed),
		),
	}
}

// Turnstile counts coins in the action arguments and only unlocks on a
// positive amount.
func (commonTestDefinitions) Turnstile() statemachine.Definition {
	return statemachine.Definition{
		statemachine.DefineState(StateLocked,
			statemachine.On("coin", statemachine.Action(
				func(_ context.Context, _ *statemachine.Registry, args ...any) (statemachine.Result, error) {
					if len(args) == 0 {
						return statemachine.Stay(), nil
					}

					amount, ok := args[0].(int)
					if !ok || amount <= 0 {
						return statemachine.Stay().WithValue("rejected"), nil
					}

					return statemachine.GoToNamed(StateOpen).WithValue("accepted"), nil
				})),
			statemachine.On("push", statemachine.ActionFunc(
				func(_ context.Context, reg *statemachine.Registry, _ ...any) any {
					return reg
				})),
		),
		statemachine.DefineState(StateOpen,
			statemachine.On("push", StateLocked),
			statemachine.On("coin", statemachine.ActionFunc(
				func(_ context.Context, _ *statemachine.Registry, _ ...any) any {
					return []any{nil, "refunded"}
				})),
		),
	}
}
