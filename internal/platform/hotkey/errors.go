package hotkey

import "errors"

var (
	// ErrInvalidChord is returned for combinations that cannot be grabbed.
	ErrInvalidChord = errors.New("invalid hotkey chord")

	// ErrUnknownKey is returned for keys with no system hotkey equivalent.
	ErrUnknownKey = errors.New("unknown hotkey key")

	// ErrClosed is returned when registering on a closed source.
	ErrClosed = errors.New("hotkey source closed")
)
