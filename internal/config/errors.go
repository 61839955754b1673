package config

import "errors"

var (
	// ErrNoConfigDir is returned when the platform reports no user
	// configuration directory.
	ErrNoConfigDir = errors.New("no user config directory")
)
