package cmd

import (
	"github.com/alecthomas/kong"

	"github.com/dshills/keychord/internal/config"
)

// CLI is the root kong model.
type CLI struct {
	config.Settings `embed:""`

	Version kong.VersionFlag `help:"Print the version and exit."`

	Run    Run    `cmd:"" default:"1" help:"Dispatch shortcuts typed in this terminal."`
	Hotkey Hotkey `cmd:"" help:"Dispatch system-wide hotkeys."`
	Check  Check  `cmd:"" help:"Match a pattern against a set of held keys."`
	List   List   `cmd:"" help:"List the bindings."`
	Export Export `cmd:"" help:"Write the bindings as JSON."`
}
