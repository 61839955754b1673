package loop

import "errors"

// Sentinel errors for the loop package.
var (
	// ErrClosed is returned when posting to a closed loop.
	ErrClosed = errors.New("event loop is closed")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("event loop is already running")
)
