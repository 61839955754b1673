package dispatch

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dispatch package.
var (
	// ErrNilHandler is returned when a nil handler is invoked.
	ErrNilHandler = errors.New("nil handler")
)

// PanicError reports a panic raised by a handler.
type PanicError struct {
	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the point of panic.
	Stack []byte
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
