package statemachine

// resultKind tags what an action asked the dispatcher to do.
type resultKind int

const (
	kindStay resultKind = iota
	kindGoTo
	kindGoToNamed
	kindInvalid
)

// Result is the tagged outcome of an action.
type Result struct {
	kind     resultKind
	state    *State
	name     string
	value    any
	hasValue bool
	raw      any
}

// Stay keeps the machine in its current state.
func Stay() Result {
	return Result{kind: kindStay}
}

// GoTo moves the machine to the given state.
func GoTo(state *State) Result {
	if state == nil {
		return Result{kind: kindInvalid}
	}

	return Result{kind: kindGoTo, state: state}
}

// GoToNamed moves the machine to the state registered under name.
func GoToNamed(name string) Result {
	return Result{kind: kindGoToNamed, name: name}
}

// WithValue sets the value returned to the caller of the dispatcher. A nil
// value means the machine itself is returned.
func (r Result) WithValue(value any) Result {
	r.value = value
	r.hasValue = value != nil

	return r
}

// IsStay reports whether the result keeps the current state.
func (r Result) IsStay() bool {
	return r.kind == kindStay
}

// Value returns the caller-visible value, if one was set.
func (r Result) Value() (any, bool) {
	return r.value, r.hasValue
}

// Adapt translates a bare action return value into a Result:
//   - nil and *Registry stay in the current state
//   - a string names the next state
//   - a *State is the next state
//   - a []any is a pair of (next state, caller value)
//
// Any other value becomes a candidate the transition executor rejects.
func Adapt(v any) Result {
	switch val := v.(type) {
	case nil:
		return Stay()
	case Result:
		return val
	case *Registry:
		return Stay()
	case string:
		return GoToNamed(val)
	case *State:
		return GoTo(val)
	case []any:
		if len(val) == 0 {
			return Result{kind: kindInvalid, raw: v}
		}

		res := Adapt(val[0])
		if len(val) > 1 {
			res = res.WithValue(val[1])
		}

		return res
	default:
		return Result{kind: kindInvalid, raw: v}
	}
}
