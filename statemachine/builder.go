package statemachine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	errEmptyName       = errors.New("name is required")
	errDuplicateState  = errors.New("duplicate state name")
	errDuplicateEntry  = errors.New("duplicate entry")
	errHookType        = errors.New("hook entry must be a Hook")
	errHookName        = errors.New("hook value under a non-hook name")
	errUnsupportedType = errors.New("unsupported entry value type")
)

// New builds a machine from a states description. Every state is registered
// in description order, every distinct event name gets a dispatcher, and the
// first state becomes current unless WithInitialState names another
// registered state.
func New(src Source, opts ...Option) (*Machine, error) {
	if src == nil {
		return nil, invalidDefinition("", "", errNilSource)
	}

	def, err := src.Definition()
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			return nil, err
		}

		return nil, invalidDefinition("", "", err)
	}

	if len(def) == 0 {
		return nil, invalidDefinition("", "", errEmptyDefinition)
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	machine := &Machine{
		id:                 uuid.New(),
		name:               cfg.name,
		registry:           newRegistry(),
		chains:             make(map[string]*eventChain),
		invalidEventErrors: cfg.invalidEventErrors,
		logger:             cfg.logger,
	}
	machine.registry.machine = machine

	for _, stateDef := range def {
		state, err := buildState(stateDef, machine.registry)
		if err != nil {
			return nil, err
		}

		machine.registry.register(state)

		for _, event := range state.events {
			machine.chain(event, state)
		}

		if machine.current == nil {
			machine.current = state
		}
	}

	if state, ok := machine.registry.Get(cfg.initialState); ok {
		machine.current = state
	}

	if machine.current == nil {
		return nil, invalidDefinition("", "", errNoInitialState)
	}

	if cfg.onTransition != nil {
		machine.Bind(cfg.onTransition)
	}

	return machine, nil
}

// chain appends state's action for event to the event's dispatch chain,
// creating the chain on first sight of the event name.
func (m *Machine) chain(event string, state *State) {
	ch, ok := m.chains[event]
	if !ok {
		ch = &eventChain{event: event}
		m.chains[event] = ch
		m.eventNames = append(m.eventNames, event)
	}

	ch.links = append(ch.links, chainLink{state: state, action: state.actions[event]})
}

func buildState(def StateDef, reg *Registry) (*State, error) {
	if def.Name == "" {
		return nil, invalidDefinition("", "", fmt.Errorf("state %w", errEmptyName))
	}

	if _, exists := reg.Get(def.Name); exists {
		return nil, invalidDefinition(def.Name, "", errDuplicateState)
	}

	state := newState(def.Name)
	seen := make(map[string]bool, len(def.Entries))

	for _, entry := range def.Entries {
		if entry.Name == "" {
			return nil, invalidDefinition(def.Name, "", fmt.Errorf("entry %w", errEmptyName))
		}

		if seen[entry.Name] {
			return nil, invalidDefinition(def.Name, entry.Name, errDuplicateEntry)
		}

		seen[entry.Name] = true

		err := addEntry(state, entry)
		if err != nil {
			return nil, invalidDefinition(def.Name, entry.Name, err)
		}
	}

	return state, nil
}

// addEntry classifies one entry. String values are always shorthand
// actions. Function values under onEnter, onLeave, onBefore<X> or onAfter<X>
// (any case) are hooks; a Hook under on<X> is an alias for the enter hook
// when X is the state's own name and for the after hook of event X otherwise.
// Everything else function-valued is an action.
func addEntry(state *State, entry Entry) error {
	if target, ok := entry.Value.(string); ok {
		state.addAction(entry.Name, shorthand(target))

		return nil
	}

	hook := asHook(entry.Value)

	if key, ok := parseHookName(entry.Name); ok {
		if hook == nil {
			return errHookType
		}

		if _, dup := state.hooks.primary[key]; dup {
			return errDuplicateEntry
		}

		state.hooks.primary[key] = hook

		return nil
	}

	if hook != nil {
		key, ok := parseAliasName(entry.Name, state.name)
		if !ok {
			return errHookName
		}

		if _, dup := state.hooks.alias[key]; dup {
			return errDuplicateEntry
		}

		state.hooks.alias[key] = hook

		return nil
	}

	action := asAction(entry.Value)
	if action == nil {
		return fmt.Errorf("%w: %T", errUnsupportedType, entry.Value)
	}

	state.addAction(entry.Name, action)

	return nil
}

func parseHookName(name string) (hookKey, bool) {
	lower := strings.ToLower(name)

	switch {
	case lower == "onenter":
		return hookKey{kind: hookEnter}, true
	case lower == "onleave":
		return hookKey{kind: hookLeave}, true
	case strings.HasPrefix(lower, "onbefore") && len(lower) > len("onbefore"):
		return hookKey{kind: hookBefore, event: strings.TrimPrefix(lower, "onbefore")}, true
	case strings.HasPrefix(lower, "onafter") && len(lower) > len("onafter"):
		return hookKey{kind: hookAfter, event: strings.TrimPrefix(lower, "onafter")}, true
	default:
		return hookKey{}, false
	}
}

func parseAliasName(name, stateName string) (hookKey, bool) {
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, "on") || len(lower) == len("on") {
		return hookKey{}, false
	}

	target := strings.TrimPrefix(lower, "on")
	if target == strings.ToLower(stateName) {
		return hookKey{kind: hookEnter}, true
	}

	return hookKey{kind: hookAfter, event: target}, true
}

func asHook(v any) Hook {
	switch fn := v.(type) {
	case Hook:
		return fn
	case func(context.Context, *Registry, Transition) error:
		return fn
	default:
		return nil
	}
}

func asAction(v any) Action {
	switch fn := v.(type) {
	case Action:
		return fn
	case func(context.Context, *Registry, ...any) (Result, error):
		return fn
	case ActionFunc:
		return adaptFunc(fn)
	case func(context.Context, *Registry, ...any) any:
		return adaptFunc(fn)
	default:
		return nil
	}
}

func adaptFunc(fn ActionFunc) Action {
	return func(ctx context.Context, reg *Registry, args ...any) (Result, error) {
		return Adapt(fn(ctx, reg, args...)), nil
	}
}

func shorthand(target string) Action {
	return func(context.Context, *Registry, ...any) (Result, error) {
		return GoToNamed(target), nil
	}
}
