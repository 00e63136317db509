package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// IntOrTemplate is an integer given either literally or as a template
// rendered against the request payload (e.g. "{{ total_price|int }}").
type IntOrTemplate struct {
	Value    int
	Template string
}

// IsTemplate reports whether the value must be rendered before use.
func (v IntOrTemplate) IsTemplate() bool { return v.Template != "" }

// UnmarshalYAML accepts an integer scalar or a string.
func (v *IntOrTemplate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected integer or template string", node.Line)
	}
	if node.Tag == "!!int" {
		n, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*v = IntOrTemplate{Value: n}
		return nil
	}
	if n, err := strconv.Atoi(node.Value); err == nil {
		*v = IntOrTemplate{Value: n}
		return nil
	}
	*v = IntOrTemplate{Template: node.Value}
	return nil
}

// MarshalYAML writes the literal integer or the template string.
func (v IntOrTemplate) MarshalYAML() (any, error) {
	if v.IsTemplate() {
		return v.Template, nil
	}
	return v.Value, nil
}

// KeyboardCell is one reply keyboard button. In YAML it is either a plain
// string (text only) or a mapping with request_* options.
type KeyboardCell struct {
	Text            string          `yaml:"text"`
	RequestContact  *bool           `yaml:"request_contact,omitempty"`
	RequestLocation *bool           `yaml:"request_location,omitempty"`
	RequestPoll     *PollTypeConfig `yaml:"request_poll,omitempty"`
	WebApp          string          `yaml:"web_app,omitempty"`
}

// Simple reports whether the cell carries only text.
func (c KeyboardCell) Simple() bool {
	return c.RequestContact == nil && c.RequestLocation == nil && c.RequestPoll == nil && c.WebApp == ""
}

// UnmarshalYAML accepts a scalar string or a mapping.
func (c *KeyboardCell) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = KeyboardCell{Text: node.Value}
		return nil
	case yaml.MappingNode:
		type plain KeyboardCell
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*c = KeyboardCell(p)
		return nil
	default:
		return fmt.Errorf("line %d: keyboard button must be a string or a mapping", node.Line)
	}
}

// MarshalYAML writes text-only cells back as plain strings.
func (c KeyboardCell) MarshalYAML() (any, error) {
	if c.Simple() {
		return c.Text, nil
	}
	type plain KeyboardCell
	return plain(c), nil
}
