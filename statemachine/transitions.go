package statemachine

import (
	"context"
	"fmt"
	"slices"
)

// transition validates res and commits it. Dispatch calls it after the
// after hook; Registry.SetMachineState calls it directly.
func (m *Machine) transition(ctx context.Context, res Result, event string) error {
	next, err := m.validate(res, event)
	if err != nil {
		return err
	}

	return m.commit(ctx, next, event)
}

// validate resolves res to a registered state. It is the only gate between
// an action's return value and the current state.
func (m *Machine) validate(res Result, event string) (*State, error) {
	var next *State

	switch res.kind {
	case kindStay:
		return m.current, nil
	case kindGoTo:
		next = res.state
	case kindGoToNamed:
		next = m.registry.State(res.name)
	}

	if next == nil || next.name == "" || !m.registry.Contains(next) {
		return nil, &TransitionError{
			Event: event,
			From:  m.current.name,
			To:    m.candidate(res),
			Err:   fmt.Errorf("%w: not a state of this machine", ErrInvalidState),
		}
	}

	return next, nil
}

// candidate returns the target name res asks for, whether or not it is
// registered. Stay names the current state.
func (m *Machine) candidate(res Result) string {
	switch res.kind {
	case kindStay:
		return m.current.name
	case kindGoTo:
		return res.state.Name()
	case kindGoToNamed:
		return res.name
	default:
		if res.raw == nil {
			return ""
		}

		return fmt.Sprintf("%v", res.raw)
	}
}

// commit moves the machine to next. Nothing happens when next is already
// current. Otherwise: leave hook of the old state, state change, enter hook
// of the new state, then listeners in registration order. A failing hook or
// listener stops the sequence; earlier steps are not undone.
func (m *Machine) commit(ctx context.Context, next *State, event string) error {
	if next == m.current {
		return nil
	}

	last := m.current
	t := Transition{Event: event, From: last.name, To: next.name}

	err := runHook(ctx, m.registry, last, hookLeave, t)
	if err != nil {
		return err
	}

	m.current = next

	transitionTotal.WithLabelValues(sanitizeMachine(m.name), t.From, t.To, sanitizeEvent(event)).Inc()
	recordTransition(ctx, t)

	if m.logger != nil {
		m.logger.TransitionExecuted(ctx, m.name, t)
	}

	err = runHook(ctx, m.registry, next, hookEnter, t)
	if err != nil {
		return err
	}

	return m.notify(ctx, t)
}

// notify calls every listener registered at the time of the transition.
func (m *Machine) notify(ctx context.Context, t Transition) error {
	for _, entry := range slices.Clone(m.listeners) {
		err := entry.listener(ctx, t)
		if err != nil {
			return &HookError{Hook: "listener " + entry.id.String(), Event: t.Event, Err: err}
		}
	}

	return nil
}

// runHook fires state's hook of the given kind, if it has one. Before and
// after hooks are keyed by the event name.
func runHook(ctx context.Context, reg *Registry, state *State, kind hookKind, t Transition) error {
	event := ""
	if kind == hookBefore || kind == hookAfter {
		event = t.Event
	}

	hook := state.hooks.lookup(kind, event)
	if hook == nil {
		return nil
	}

	err := hook(ctx, reg, t)
	if err != nil {
		return &HookError{Hook: kind.String(), State: state.name, Event: t.Event, Err: err}
	}

	return nil
}
