// Package statemachine builds finite state machines from declarative states
// descriptions and dispatches events to the action of the current state.
package statemachine

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
)

// Dispatch outcome labels.
const (
	outcomeHandled  = "handled"
	outcomeIgnored  = "ignored"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// chainLink binds one state's action to an event name.
type chainLink struct {
	state  *State
	action Action
}

// eventChain is the ordered list of states sharing an event name, in state
// registration order.
type eventChain struct {
	event string
	links []chainLink
}

// find returns the link owned by current, if any.
func (c *eventChain) find(current *State) (chainLink, bool) {
	for _, link := range c.links {
		if link.state == current {
			return link, true
		}
	}

	return chainLink{}, false
}

type listenerEntry struct {
	id       ListenerID
	listener Listener
}

// Machine is a live state machine. It is not safe for concurrent use.
type Machine struct {
	id                 uuid.UUID
	name               string
	registry           *Registry
	current            *State
	chains             map[string]*eventChain
	eventNames         []string
	listeners          []listenerEntry
	invalidEventErrors bool
	logger             Logger
}

// ID returns the machine's unique ID.
func (m *Machine) ID() uuid.UUID {
	return m.id
}

// Name returns the machine name set with WithName.
func (m *Machine) Name() string {
	return m.name
}

// Registry returns the machine's state registry.
func (m *Machine) Registry() *Registry {
	return m.registry
}

// MachineState returns the name of the current state.
func (m *Machine) MachineState() string {
	return m.current.name
}

// MachineEvents returns the events owned by the current state, in
// definition order. Hooks are not included.
func (m *Machine) MachineEvents() []string {
	return m.current.Events()
}

// EventNames returns every event name discovered across all states, in order
// of first appearance.
func (m *Machine) EventNames() []string {
	return slices.Clone(m.eventNames)
}

// Chain returns the names of the states that define event, in registration
// order. Dispatch walks this chain to find the current state's action.
func (m *Machine) Chain(event string) []string {
	ch, ok := m.chains[event]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(ch.links))
	for _, link := range ch.links {
		names = append(names, link.state.name)
	}

	return names
}

// Bind registers a listener notified after every committed transition.
// Listeners run in registration order.
func (m *Machine) Bind(listener Listener) ListenerID {
	if listener == nil {
		return ListenerID{}
	}

	id := ListenerID(uuid.New())
	m.listeners = append(m.listeners, listenerEntry{id: id, listener: listener})

	return id
}

// Unbind removes the given listeners. With no arguments every listener is
// removed.
func (m *Machine) Unbind(ids ...ListenerID) *Machine {
	if len(ids) == 0 {
		m.listeners = nil

		return m
	}

	m.listeners = slices.DeleteFunc(slices.Clone(m.listeners), func(entry listenerEntry) bool {
		return slices.Contains(ids, entry.id)
	})

	return m
}

// Event returns a dispatcher bound to event.
func (m *Machine) Event(event string) EventFunc {
	return func(ctx context.Context, args ...any) (any, error) {
		return m.Fire(ctx, event, args...)
	}
}

// Fire dispatches event to the current state's action and drives the
// resulting transition. The arguments are passed to the action unchanged.
//
// If the current state does not own the event the call returns the machine
// and leaves the state alone, unless WithInvalidEventErrors is set. Otherwise
// the order is: before hook, action, after hook, then the transition (leave
// hook, commit, enter hook, listeners). The return value is the action's
// caller-visible value, or the machine when there is none.
func (m *Machine) Fire(ctx context.Context, event string, args ...any) (value any, err error) {
	ch, ok := m.chains[event]

	var link chainLink
	if ok {
		link, ok = ch.find(m.current)
	}

	if !ok {
		return m.unhandled(ctx, event)
	}

	ctx, span := startDispatchSpan(ctx, m, event)
	start := time.Now()

	defer func() {
		outcome := outcomeHandled
		if err != nil {
			outcome = outcomeError

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "completed")
		}

		span.End()

		dispatchesTotal.WithLabelValues(sanitizeMachine(m.name), event, outcome).Inc()
		dispatchDuration.WithLabelValues(sanitizeMachine(m.name), event).Observe(time.Since(start).Seconds())
	}()

	if m.logger != nil {
		m.logger.EventDispatched(ctx, m.name, event, m.current.name)
	}

	owner := link.state
	from := m.current.name

	err = runHook(ctx, m.registry, owner, hookBefore, Transition{Event: event, From: from, To: from})
	if err != nil {
		return nil, err
	}

	res, err := link.action(ctx, m.registry, args...)
	if err != nil {
		return nil, err
	}

	// Stay resolves against the state current after the action ran, which
	// differs from owner when the action called Registry.SetMachineState.
	// The after hook sees the candidate name before the executor checks it.
	err = runHook(ctx, m.registry, owner, hookAfter, Transition{Event: event, From: m.current.name, To: m.candidate(res)})
	if err != nil {
		return nil, err
	}

	err = m.transition(ctx, res, event)
	if err != nil {
		return nil, err
	}

	if v, ok := res.Value(); ok {
		return v, nil
	}

	return m, nil
}

// unhandled covers events the current state does not own.
func (m *Machine) unhandled(ctx context.Context, event string) (any, error) {
	label := m.eventLabel(event)

	if m.invalidEventErrors {
		dispatchesTotal.WithLabelValues(sanitizeMachine(m.name), label, outcomeRejected).Inc()

		return nil, &EventError{Event: event, State: m.current.name, Err: ErrInvalidEvent}
	}

	dispatchesTotal.WithLabelValues(sanitizeMachine(m.name), label, outcomeIgnored).Inc()

	if m.logger != nil {
		m.logger.EventIgnored(ctx, m.name, event, m.current.name)
	}

	return m, nil
}

// eventLabel maps events no state defines to a single metric label.
func (m *Machine) eventLabel(event string) string {
	if _, ok := m.chains[event]; !ok {
		return unknownEventLabel
	}

	return event
}
