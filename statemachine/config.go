package statemachine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	errStatesNotMapping = errors.New("states must be a mapping of state name to events")
	errEventsNotMapping = errors.New("events must be a mapping of event name to target state")
	errTargetRequired   = errors.New("target state is required")
)

// Config is a YAML states description. Events map to target state names
// (shorthand transitions); code-defined actions and hooks can be merged in
// with Definition.Extend.
//
//	name: door
//	initialState: OPEN
//	invalidEventErrors: false
//	states:
//	  OPEN:
//	    close: CLOSED
//	  CLOSED:
//	    open: OPEN
type Config struct {
	Name               string    `json:"name"               yaml:"name"`
	InitialState       string    `json:"initialState"       yaml:"initialState"`
	InvalidEventErrors bool      `json:"invalidEventErrors" yaml:"invalidEventErrors"`
	States             StateList `json:"states"             yaml:"states"`
}

// StateConfig is one state of a Config.
type StateConfig struct {
	Name   string
	Events []EventConfig
}

// EventConfig maps an event to its target state.
type EventConfig struct {
	Name   string
	Target string
}

// StateList keeps states in document order.
type StateList []StateConfig

// UnmarshalYAML decodes a mapping node so that state and event order follow
// the document.
func (l *StateList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %w", node.Line, errStatesNotMapping)
	}

	states := make(StateList, 0, len(node.Content)/2) //nolint:mnd // key/value pairs

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		state := StateConfig{Name: key.Value}

		switch value.Kind {
		case yaml.MappingNode:
			for j := 0; j+1 < len(value.Content); j += 2 {
				target := value.Content[j+1]

				// A null target is kept empty so Validate rejects it.
				event := EventConfig{Name: value.Content[j].Value}
				if target.ShortTag() != "!!null" {
					event.Target = target.Value
				}

				state.Events = append(state.Events, event)
			}
		case yaml.ScalarNode:
			if value.ShortTag() != "!!null" {
				return fmt.Errorf("line %d: state %s: %w", value.Line, key.Value, errEventsNotMapping)
			}
		default:
			return fmt.Errorf("line %d: state %s: %w", value.Line, key.Value, errEventsNotMapping)
		}

		states = append(states, state)
	}

	*l = states

	return nil
}

// LoadConfig loads a configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes loads a configuration from YAML bytes.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFromFS loads a configuration from a filesystem such as embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return LoadConfigFromBytes(data)
}

// Validate checks the configuration. All failures match ErrInvalidState.
func (c *Config) Validate() error {
	if len(c.States) == 0 {
		return invalidDefinition("", "", errEmptyDefinition)
	}

	names := make(map[string]bool, len(c.States))

	for _, state := range c.States {
		if state.Name == "" {
			return invalidDefinition("", "", fmt.Errorf("state %w", errEmptyName))
		}

		if names[state.Name] {
			return invalidDefinition(state.Name, "", errDuplicateState)
		}

		names[state.Name] = true

		for _, event := range state.Events {
			if event.Target == "" {
				return invalidDefinition(state.Name, event.Name, errTargetRequired)
			}
		}
	}

	if c.InitialState != "" && !names[c.InitialState] {
		return invalidDefinition(c.InitialState, "", errNoInitialState)
	}

	return nil
}

// Definition implements Source.
func (c *Config) Definition() (Definition, error) {
	if c == nil {
		return nil, invalidDefinition("", "", errNilSource)
	}

	err := c.Validate()
	if err != nil {
		return nil, err
	}

	def := make(Definition, 0, len(c.States))

	for _, state := range c.States {
		entries := make([]Entry, 0, len(state.Events))
		for _, event := range state.Events {
			entries = append(entries, On(event.Name, event.Target))
		}

		def = append(def, DefineState(state.Name, entries...))
	}

	return def, nil
}

// Options returns the machine options the configuration implies.
func (c *Config) Options() []Option {
	return []Option{
		WithName(c.Name),
		WithInitialState(c.InitialState),
		WithInvalidEventErrors(c.InvalidEventErrors),
	}
}

// NewFromConfig builds a machine from a configuration. Extra options are
// applied after the configuration's own.
func NewFromConfig(config *Config, opts ...Option) (*Machine, error) {
	if config == nil {
		return nil, invalidDefinition("", "", errNilSource)
	}

	return New(config, append(config.Options(), opts...)...)
}
