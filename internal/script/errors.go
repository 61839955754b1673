package script

import "errors"

// Errors for script operations.
var (
	// ErrClosed is returned when using a closed engine.
	ErrClosed = errors.New("script engine is closed")

	// ErrNoEvent is returned when a Lua function that needs the current
	// event is called outside a handler.
	ErrNoEvent = errors.New("no event in scope")
)
