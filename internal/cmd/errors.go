package cmd

import "errors"

var (
	// ErrNotTerminal is returned by run when stdin is not a terminal.
	ErrNotTerminal = errors.New("stdin is not a terminal")

	// ErrNoChords is returned by hotkey when nothing could be grabbed.
	ErrNoChords = errors.New("no hotkey chords registered")
)
