package testing

import (
	"context"
	"fmt"

	"github.com/amp-labs/fsm/statemachine"
)

// Call is one recorded hook, listener or action invocation.
type Call struct {
	Label      string
	Transition statemachine.Transition
}

func (c Call) String() string {
	return fmt.Sprintf("%s(%s,%s,%s)", c.Label, c.Transition.Event, c.Transition.From, c.Transition.To)
}

// Recorder captures the order in which hooks, actions and listeners fire.
type Recorder struct {
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Hook returns a hook that records label.
func (r *Recorder) Hook(label string) statemachine.Hook {
	return func(_ context.Context, _ *statemachine.Registry, t statemachine.Transition) error {
		r.calls = append(r.calls, Call{Label: label, Transition: t})

		return nil
	}
}

// FailingHook returns a hook that records label and then fails with err.
func (r *Recorder) FailingHook(label string, err error) statemachine.Hook {
	return func(_ context.Context, _ *statemachine.Registry, t statemachine.Transition) error {
		r.calls = append(r.calls, Call{Label: label, Transition: t})

		return err
	}
}

// Listener returns a listener that records label.
func (r *Recorder) Listener(label string) statemachine.Listener {
	return func(_ context.Context, t statemachine.Transition) error {
		r.calls = append(r.calls, Call{Label: label, Transition: t})

		return nil
	}
}

// Action returns an action that records label and returns res.
func (r *Recorder) Action(label string, res statemachine.Result) statemachine.Action {
	return func(_ context.Context, _ *statemachine.Registry, _ ...any) (statemachine.Result, error) {
		r.calls = append(r.calls, Call{Label: label})

		return res, nil
	}
}

// Labels returns the recorded labels in call order.
func (r *Recorder) Labels() []string {
	labels := make([]string, 0, len(r.calls))
	for _, call := range r.calls {
		labels = append(labels, call.Label)
	}

	return labels
}

// Calls returns the recorded calls.
func (r *Recorder) Calls() []Call {
	return r.calls
}

// Reset clears the recorder.
func (r *Recorder) Reset() {
	r.calls = nil
}

// Instrument returns a copy of def where every state records its enter and
// leave hooks and the before/after hooks of each of its events. Labels have
// the form "<STATE>.onEnter" or "<STATE>.onBefore.<event>". def must not
// already define those hooks.
func Instrument(def statemachine.Definition, r *Recorder) statemachine.Definition {
	out := def

	for _, state := range def {
		entries := []statemachine.Entry{
			statemachine.OnEnter(r.Hook(state.Name + ".onEnter")),
			statemachine.OnLeave(r.Hook(state.Name + ".onLeave")),
		}

		for _, entry := range state.Entries {
			if _, isHook := entry.Value.(statemachine.Hook); isHook {
				continue
			}

			entries = append(entries,
				statemachine.OnBefore(entry.Name, r.Hook(state.Name+".onBefore."+entry.Name)),
				statemachine.OnAfter(entry.Name, r.Hook(state.Name+".onAfter."+entry.Name)),
			)
		}

		out = out.Extend(state.Name, entries...)
	}

	return out
}
