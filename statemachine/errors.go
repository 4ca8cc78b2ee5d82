package statemachine

import (
	"errors"
	"fmt"
)

// Predefined error types.
var (
	// ErrInvalidState is returned when a states description is malformed, when
	// no initial state can be determined, or when an action resolves to a
	// state that is not a member of the machine's registry.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidEvent is returned, in strict mode only, when an event is fired
	// that the current state does not own.
	ErrInvalidEvent = errors.New("invalid event")

	errEmptyDefinition = errors.New("no states defined")
	errNilSource       = errors.New("nil source")
	errNoInitialState  = errors.New("no initial state")
	errNoMachine       = errors.New("registry is not owned by a machine")
)

// DefinitionError reports a malformed states description.
type DefinitionError struct {
	State string
	Entry string
	Err   error
}

func (e *DefinitionError) Error() string {
	switch {
	case e.State == "":
		return fmt.Sprintf("states description: %v", e.Err)
	case e.Entry == "":
		return fmt.Sprintf("state %s: %v", e.State, e.Err)
	default:
		return fmt.Sprintf("state %s, entry %s: %v", e.State, e.Entry, e.Err)
	}
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// EventError wraps an error with event context.
type EventError struct {
	Event string
	State string
	Err   error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event %s in state %s: %v", e.Event, e.State, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// TransitionError wraps an error with transition context.
type TransitionError struct {
	Event string
	From  string
	To    string
	Err   error
}

func (e *TransitionError) Error() string {
	prefix := "transition"
	if e.Event != "" {
		prefix = "transition on " + e.Event
	}

	if e.To == "" {
		return fmt.Sprintf("%s from %s: %v", prefix, e.From, e.Err)
	}

	return fmt.Sprintf("%s %s -> %s: %v", prefix, e.From, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// HookError wraps an error returned by a hook or listener.
type HookError struct {
	Hook  string
	State string
	Event string
	Err   error
}

func (e *HookError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("%s (event %q): %v", e.Hook, e.Event, e.Err)
	}

	return fmt.Sprintf("%s of state %s (event %q): %v", e.Hook, e.State, e.Event, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// invalidDefinition wraps err so that it matches ErrInvalidState.
func invalidDefinition(state, entry string, err error) error {
	return &DefinitionError{
		State: state,
		Entry: entry,
		Err:   fmt.Errorf("%w: %w", ErrInvalidState, err),
	}
}
