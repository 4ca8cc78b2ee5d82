package statemachine

import (
	"context"
	"slices"
	"strings"
)

// hookKind is the structured key of a state's hook table.
type hookKind int

const (
	hookEnter hookKind = iota
	hookLeave
	hookBefore
	hookAfter
)

func (k hookKind) String() string {
	switch k {
	case hookEnter:
		return "onEnter"
	case hookLeave:
		return "onLeave"
	case hookBefore:
		return "onBefore"
	case hookAfter:
		return "onAfter"
	default:
		return "unknown"
	}
}

// hookKey identifies a hook. Event is the lower-cased event name for
// before/after hooks and empty for enter/leave. Event names themselves stay
// case-sensitive, so events differing only in case share their hooks.
type hookKey struct {
	kind  hookKind
	event string
}

// hookTable holds a state's hooks plus the weaker on<X> aliases, which only
// fire when the primary hook is absent.
type hookTable struct {
	primary map[hookKey]Hook
	alias   map[hookKey]Hook
}

func newHookTable() hookTable {
	return hookTable{
		primary: make(map[hookKey]Hook),
		alias:   make(map[hookKey]Hook),
	}
}

func (h hookTable) lookup(kind hookKind, event string) Hook {
	key := hookKey{kind: kind, event: strings.ToLower(event)}

	if hook, ok := h.primary[key]; ok {
		return hook
	}

	return h.alias[key]
}

// State is a named, immutable bundle of event actions and lifecycle hooks.
type State struct {
	name    string
	events  []string
	actions map[string]Action
	hooks   hookTable
}

func newState(name string) *State {
	return &State{
		name:    name,
		actions: make(map[string]Action),
		hooks:   newHookTable(),
	}
}

// Name returns the state's registered name.
func (s *State) Name() string {
	if s == nil {
		return ""
	}

	return s.name
}

// Events returns the events this state owns, in definition order.
func (s *State) Events() []string {
	return slices.Clone(s.events)
}

// HasEvent reports whether the state defines an action for event.
func (s *State) HasEvent(event string) bool {
	_, ok := s.actions[event]

	return ok
}

// Invoke runs the state's raw action for event. No hooks, listeners or
// state changes are involved; see Registry.Invoke.
func (s *State) Invoke(ctx context.Context, reg *Registry, event string, args ...any) (Result, error) {
	action, ok := s.actions[event]
	if !ok {
		return Result{}, &EventError{Event: event, State: s.name, Err: ErrInvalidEvent}
	}

	return action(ctx, reg, args...)
}

func (s *State) addAction(event string, action Action) {
	s.events = append(s.events, event)
	s.actions[event] = action
}
