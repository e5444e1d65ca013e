// Package replay runs scripted numeric field sessions on virtual time.
//
// A script mounts one field, feeds it focus, typing, waits and external
// updates, and records what the field displays and commits. Scripts are
// YAML:
//
//	name: currency entry
//	value: 1234
//	format:
//	  prefix: "$"
//	  group_digits: true
//	steps:
//	  - focus
//	  - type: "12"
//	  - wait: 300ms
//	  - blur
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/klauern/numfield/internal/config"
	"github.com/klauern/numfield/internal/numfmt"
)

// ErrInvalidScript is wrapped by every script validation failure.
var ErrInvalidScript = errors.New("invalid script")

// Step actions.
const (
	ActionFocus = "focus"
	ActionBlur  = "blur"
	ActionClose = "close"
	ActionType  = "type"
	ActionKeys  = "keys"
	ActionErase = "erase"
	ActionWait  = "wait"
	ActionSet   = "set"
)

// HostMode selects how the simulated host answers commits.
type HostMode string

const (
	// HostAccept stores every commit and feeds it back through SetValue.
	HostAccept HostMode = "accept"
	// HostRefuse keeps its value and feeds that back, reverting the field.
	HostRefuse HostMode = "refuse"
	// HostDetached records commits without ever calling SetValue.
	HostDetached HostMode = "detached"
)

// Script is one scripted session.
type Script struct {
	// Name identifies the script in transcripts and golden files.
	Name string `yaml:"name"`
	// Description explains what the script exercises.
	Description string `yaml:"description,omitempty"`
	// Value is the initial upstream value.
	Value numfmt.Value `yaml:"value"`
	// Host selects the host behavior. Defaults to accept.
	Host HostMode `yaml:"host,omitempty"`
	// KeyDelay is the virtual time between keys of a keys step.
	KeyDelay time.Duration `yaml:"key_delay,omitempty"`
	// Format is the Format Configuration of the field.
	Format numfmt.Options `yaml:"format"`
	// Field configures the controller.
	Field config.FieldConfig `yaml:"field"`
	// Steps are applied in order.
	Steps []Step `yaml:"steps"`
}

// Step is one scripted event. In YAML a step is either a bare action
// ("focus", "blur", "close") or a single-key mapping such as `type: "12"`,
// `keys: "345"`, `erase: 2`, `wait: 300ms` or `set: 99`.
type Step struct {
	Action string
	Text   string
	Count  int
	Wait   time.Duration
	Value  numfmt.Value
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case ActionFocus, ActionBlur, ActionClose:
			*s = Step{Action: node.Value}
			return nil
		}
		return fmt.Errorf("%w: line %d: unknown step %q", ErrInvalidScript, node.Line, node.Value)
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("%w: line %d: a step takes exactly one action", ErrInvalidScript, node.Line)
		}
		return s.decodeAction(node.Content[0].Value, node.Content[1])
	default:
		return fmt.Errorf("%w: line %d: step must be an action name or a mapping", ErrInvalidScript, node.Line)
	}
}

func (s *Step) decodeAction(action string, arg *yaml.Node) error {
	step := Step{Action: action}
	var err error
	switch action {
	case ActionType, ActionKeys:
		err = arg.Decode(&step.Text)
	case ActionErase:
		err = arg.Decode(&step.Count)
	case ActionWait:
		err = arg.Decode(&step.Wait)
	case ActionSet:
		err = arg.Decode(&step.Value)
	case ActionFocus, ActionBlur, ActionClose:
		// Tolerate `focus: {}` style mappings.
	default:
		return fmt.Errorf("%w: line %d: unknown step %q", ErrInvalidScript, arg.Line, action)
	}
	if err != nil {
		return fmt.Errorf("%w: line %d: %s: %w", ErrInvalidScript, arg.Line, action, err)
	}
	*s = step
	return nil
}

// String renders the step the way it is written in a script.
func (s Step) String() string {
	switch s.Action {
	case ActionType, ActionKeys:
		return fmt.Sprintf("%s %q", s.Action, s.Text)
	case ActionErase:
		return fmt.Sprintf("%s %d", s.Action, s.Count)
	case ActionWait:
		return fmt.Sprintf("%s %s", s.Action, s.Wait)
	case ActionSet:
		return fmt.Sprintf("%s %s", s.Action, valueText(s.Value))
	default:
		return s.Action
	}
}

// newScript returns a script carrying the default configuration.
func newScript() *Script {
	cfg := config.Default()
	return &Script{
		Host:   HostAccept,
		Format: cfg.Format,
		Field:  cfg.Field,
	}
}

// ParseScript decodes and validates a script. Unknown keys are rejected.
func ParseScript(data []byte) (*Script, error) {
	script := newScript()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return script, nil
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// Validate checks that the script can run.
func (s *Script) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScript)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: steps list is required and must be non-empty", ErrInvalidScript)
	}
	switch s.Host {
	case HostAccept, HostRefuse, HostDetached:
	case "":
		s.Host = HostAccept
	default:
		return fmt.Errorf("%w: unknown host mode %q", ErrInvalidScript, s.Host)
	}
	if s.KeyDelay < 0 {
		return fmt.Errorf("%w: key_delay must not be negative", ErrInvalidScript)
	}
	for i, step := range s.Steps {
		switch {
		case step.Action == ActionWait && step.Wait <= 0:
			return fmt.Errorf("%w: step %d: wait must be positive", ErrInvalidScript, i+1)
		case step.Action == ActionErase && step.Count <= 0:
			return fmt.Errorf("%w: step %d: erase must be positive", ErrInvalidScript, i+1)
		}
	}
	return nil
}
