package keymap

import (
	"errors"
	"fmt"
)

// Sentinel errors for the keymap package.
var (
	// ErrUnknownFormat is returned for a bindings file with an unsupported extension.
	ErrUnknownFormat = errors.New("unknown bindings format")

	// ErrUnresolved is returned when a binding names no action or script,
	// or names an action the resolver does not know.
	ErrUnresolved = errors.New("unresolved binding")

	// ErrEmptyKeys is returned for a binding without a pattern.
	ErrEmptyKeys = errors.New("empty keys")
)

// ParseError reports a bindings file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing bindings %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
