package statemachine

import (
	"context"
	"fmt"
	"slices"
)

// Registry is the read-only handle to a machine's states. It is passed to
// every action and hook so they can refer to sibling states by name.
type Registry struct {
	states  map[string]*State
	order   []string
	machine *Machine
}

func newRegistry() *Registry {
	return &Registry{
		states: make(map[string]*State),
	}
}

func (r *Registry) register(state *State) {
	r.states[state.name] = state
	r.order = append(r.order, state.name)
}

// Get returns the state registered under name.
func (r *Registry) Get(name string) (*State, bool) {
	state, ok := r.states[name]

	return state, ok
}

// State returns the state registered under name, or nil.
func (r *Registry) State(name string) *State {
	return r.states[name]
}

// Names returns the registered state names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Len returns the number of registered states.
func (r *Registry) Len() int {
	return len(r.order)
}

// Contains reports whether state is the exact instance registered under its
// name.
func (r *Registry) Contains(state *State) bool {
	if state == nil {
		return false
	}

	return r.states[state.name] == state
}

// Invoke calls the raw action of event on the named state. This is the
// epsilon path: no before/after hooks, no enter/leave hooks, no listeners,
// and no change of the current state. The caller decides what to do with
// the returned Result, typically returning it from its own action.
func (r *Registry) Invoke(ctx context.Context, state, event string, args ...any) (Result, error) {
	target, ok := r.states[state]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidState, state)
	}

	return target.Invoke(ctx, r, event, args...)
}

// MachineState returns the name of the owning machine's current state, or
// "" for a registry that belongs to no machine.
func (r *Registry) MachineState() string {
	if r.machine == nil {
		return ""
	}

	return r.machine.MachineState()
}

// SetMachineState moves the owning machine to the named state through the
// regular transition path. Leave/enter hooks and listeners fire with an
// empty event name.
func (r *Registry) SetMachineState(ctx context.Context, name string) error {
	if r.machine == nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, errNoMachine)
	}

	return r.machine.transition(ctx, GoToNamed(name), "")
}
