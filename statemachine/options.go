package statemachine

const defaultMachineName = "machine"

// Option configures a machine at construction time.
type Option func(*options)

type options struct {
	name               string
	initialState       string
	onTransition       Listener
	invalidEventErrors bool
	logger             Logger
}

func defaultOptions() options {
	return options{
		name: defaultMachineName,
	}
}

// WithName sets the machine name used in logs, metric labels and span
// attributes.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithInitialState overrides the default initial state (the first state of
// the description). A name that is not registered is ignored.
func WithInitialState(name string) Option {
	return func(o *options) {
		o.initialState = name
	}
}

// WithOnTransition registers a listener ahead of any listener added with
// Bind. It can be removed with Unbind() like any other listener.
func WithOnTransition(listener Listener) Option {
	return func(o *options) {
		o.onTransition = listener
	}
}

// WithInvalidEventErrors makes firing an event the current state does not own
// fail with ErrInvalidEvent instead of being ignored.
func WithInvalidEventErrors(enabled bool) Option {
	return func(o *options) {
		o.invalidEventErrors = enabled
	}
}

// WithLogger sets the logger for dispatch and transition events.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
