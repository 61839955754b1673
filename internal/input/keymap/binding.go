package keymap

import (
	"fmt"
	"strings"
)

// Binding is a declarative registration read from a bindings file.
type Binding struct {
	// Keys is the combination pattern, e.g. "control+s|meta+s".
	Keys string `json:"keys" yaml:"keys" toml:"keys"`

	// Action names a host-provided handler.
	Action string `json:"action,omitempty" yaml:"action,omitempty" toml:"action,omitempty"`

	// Script is inline Lua run as the handler. Takes precedence over Action.
	Script string `json:"script,omitempty" yaml:"script,omitempty" toml:"script,omitempty"`

	PreventDefault  bool `json:"preventDefault,omitempty" yaml:"preventDefault,omitempty" toml:"preventDefault,omitempty"`
	StopPropagation bool `json:"stopPropagation,omitempty" yaml:"stopPropagation,omitempty" toml:"stopPropagation,omitempty"`
	Once            bool `json:"once,omitempty" yaml:"once,omitempty" toml:"once,omitempty"`

	// Description documents the binding.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// NewBinding creates a binding of keys to a named action.
func NewBinding(keys, action string) Binding {
	return Binding{
		Keys:   keys,
		Action: action,
	}
}

// WithScript sets inline Lua for this binding.
func (b Binding) WithScript(src string) Binding {
	b.Script = src
	return b
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// WithPreventDefault marks matching events default-prevented.
func (b Binding) WithPreventDefault() Binding {
	b.PreventDefault = true
	return b
}

// WithStopPropagation stops propagation of matching events.
func (b Binding) WithStopPropagation() Binding {
	b.StopPropagation = true
	return b
}

// WithOnce makes the binding replace earlier registrations of its keys.
func (b Binding) WithOnce() Binding {
	b.Once = true
	return b
}

// Options converts the binding flags into registration options.
func (b Binding) Options(source string) []Option {
	var opts []Option
	if b.PreventDefault {
		opts = append(opts, PreventDefault())
	}
	if b.StopPropagation {
		opts = append(opts, StopPropagation())
	}
	if b.Once {
		opts = append(opts, Once())
	}
	if b.Description != "" {
		opts = append(opts, Describe(b.Description))
	}
	if source != "" {
		opts = append(opts, FromSource(source))
	}
	return opts
}

// Target returns what the binding runs, for display.
func (b Binding) Target() string {
	if b.Script != "" {
		return "lua: " + firstLine(b.Script)
	}
	return b.Action
}

// Validate checks the binding has keys and something to run.
func (b Binding) Validate() error {
	if strings.TrimSpace(b.Keys) == "" {
		return ErrEmptyKeys
	}
	if b.Action == "" && b.Script == "" {
		return fmt.Errorf("%w: no action or script", ErrUnresolved)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
