package statemachine

import (
	"slices"
	"strings"
)

// Entry is one named item of a state: an event action, a shorthand target
// state name, or a lifecycle hook.
//
// Value must be a string, an Action, an ActionFunc or a Hook (or an unnamed
// func literal with one of those signatures).
type Entry struct {
	Name  string
	Value any
}

// StateDef describes one state. Entries keep their order; it is the order
// reported by Machine.MachineEvents.
type StateDef struct {
	Name    string
	Entries []Entry
}

// Definition is an ordered states description. The first state is the
// default initial state.
type Definition []StateDef

// Source produces a states description.
type Source interface {
	Definition() (Definition, error)
}

// Definition implements Source.
func (d Definition) Definition() (Definition, error) {
	return d, nil
}

// Extend returns a copy of the description with entries appended to the named
// state. The state is appended if it does not exist yet.
func (d Definition) Extend(state string, entries ...Entry) Definition {
	out := make(Definition, len(d))
	for i, def := range d {
		out[i] = StateDef{Name: def.Name, Entries: slices.Clone(def.Entries)}
	}

	for i := range out {
		if out[i].Name == state {
			out[i].Entries = append(out[i].Entries, entries...)

			return out
		}
	}

	return append(out, DefineState(state, entries...))
}

// DefinitionFunc is a zero-argument factory for a states description. It is
// invoked once per machine construction.
type DefinitionFunc func() Definition

// Definition implements Source.
func (f DefinitionFunc) Definition() (Definition, error) {
	if f == nil {
		return nil, errNilSource
	}

	return f(), nil
}

// DefineState builds a StateDef.
func DefineState(name string, entries ...Entry) StateDef {
	return StateDef{Name: name, Entries: entries}
}

// On defines an event. target is either the name of the next state, an
// Action, or an ActionFunc.
func On(event string, target any) Entry {
	return Entry{Name: event, Value: target}
}

// OnEnter defines the hook fired after the state becomes current.
func OnEnter(hook Hook) Entry {
	return Entry{Name: "onEnter", Value: hook}
}

// OnLeave defines the hook fired before the state stops being current.
func OnLeave(hook Hook) Entry {
	return Entry{Name: "onLeave", Value: hook}
}

// OnBefore defines the hook fired before the state's action for event runs.
// Hook names match events case-insensitively, so in a state owning both
// "close" and "Close" the hook fires for either.
func OnBefore(event string, hook Hook) Entry {
	return Entry{Name: "onBefore" + capitalize(event), Value: hook}
}

// OnAfter defines the hook fired after the state's action for event returns
// and before the resulting transition is committed. Like OnBefore, it matches
// event names case-insensitively.
func OnAfter(event string, hook Hook) Entry {
	return Entry{Name: "onAfter" + capitalize(event), Value: hook}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
