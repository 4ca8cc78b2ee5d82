package statemachine

import (
	"context"

	"github.com/google/uuid"
)

// Action handles one event for one state. The registry handle gives access to
// sibling states; the returned Result tells the dispatcher where to go next.
type Action func(ctx context.Context, reg *Registry, args ...any) (Result, error)

// ActionFunc is the bare-return form of an Action. Its return value is
// translated with Adapt.
type ActionFunc func(ctx context.Context, reg *Registry, args ...any) any

// Hook is a lifecycle callback (onEnter, onLeave, onBefore<Event>,
// onAfter<Event>). Hooks are never exposed as events.
type Hook func(ctx context.Context, reg *Registry, t Transition) error

// Listener is notified after every committed transition.
type Listener func(ctx context.Context, t Transition) error

// EventFunc is a bound dispatcher for a single event name.
type EventFunc func(ctx context.Context, args ...any) (any, error)

// ListenerID identifies a listener registered with Bind.
type ListenerID uuid.UUID

func (id ListenerID) String() string {
	return uuid.UUID(id).String()
}

// Transition describes the triple passed to hooks and listeners.
// Event is empty for transitions not triggered by an event.
type Transition struct {
	Event string
	From  string
	To    string
}
