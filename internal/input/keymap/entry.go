package keymap

import (
	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/event/dispatch"
)

// Entry is one handler registration bound to a pattern.
type Entry struct {
	// ID identifies this registration.
	ID uuid.UUID

	// Pattern is the pattern key the entry is registered under.
	Pattern string

	// Handler is invoked when the pattern matches.
	Handler dispatch.Handler

	// PreventDefault marks the event default-prevented before the handler runs.
	PreventDefault bool

	// StopPropagation stops event propagation before the handler runs.
	StopPropagation bool

	// Once replaced any earlier entries for the pattern on registration.
	Once bool

	// Description documents the registration.
	Description string

	// Source indicates where the registration came from.
	// Examples: "code", "/home/me/.config/keychord/bindings.yaml"
	Source string
}

// Option configures an Entry at registration.
type Option func(*Entry)

// PreventDefault makes the entry call PreventDefault on matching events.
func PreventDefault() Option {
	return func(e *Entry) { e.PreventDefault = true }
}

// StopPropagation makes the entry call StopPropagation on matching events.
func StopPropagation() Option {
	return func(e *Entry) { e.StopPropagation = true }
}

// Once replaces every existing entry of the pattern with this one.
func Once() Option {
	return func(e *Entry) { e.Once = true }
}

// Describe sets the entry description.
func Describe(desc string) Option {
	return func(e *Entry) { e.Description = desc }
}

// FromSource records where the entry came from.
func FromSource(source string) Option {
	return func(e *Entry) { e.Source = source }
}

// NewEntry builds an entry with a fresh ID.
func NewEntry(pattern string, h dispatch.Handler, opts ...Option) Entry {
	e := Entry{
		ID:      uuid.New(),
		Pattern: pattern,
		Handler: h,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Options returns options that reproduce e's flags.
func (e Entry) Options() []Option {
	var opts []Option
	if e.PreventDefault {
		opts = append(opts, PreventDefault())
	}
	if e.StopPropagation {
		opts = append(opts, StopPropagation())
	}
	if e.Once {
		opts = append(opts, Once())
	}
	if e.Description != "" {
		opts = append(opts, Describe(e.Description))
	}
	if e.Source != "" {
		opts = append(opts, FromSource(e.Source))
	}
	return opts
}
