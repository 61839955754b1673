package terminal

import "errors"

// Errors for the terminal source.
var (
	// ErrNotStarted is returned when stopping a source that is not polling.
	ErrNotStarted = errors.New("terminal source not started")

	// ErrAlreadyStarted is returned when starting a source twice.
	ErrAlreadyStarted = errors.New("terminal source already started")
)
