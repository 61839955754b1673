package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/input/keymap"
)

// Export writes the bindings as a JSON bindings file.
type Export struct {
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path" placeholder:"FILE"`
	Force  bool   `help:"Overwrite the output file if it exists."`
}

// Run is called by kong when the export command is executed.
func (c *Export) Run(kctx *kong.Context, settings *config.Settings) error {
	km, err := settings.LoadKeymap()
	if err != nil {
		return err
	}
	data, err := keymap.Export(km)
	if err != nil {
		return err
	}

	if c.Output == "" {
		_, err := kctx.Stdout.Write(data)
		return err
	}
	if !c.Force {
		if _, err := os.Stat(c.Output); err == nil {
			return fmt.Errorf("%s exists; use --force to overwrite", c.Output)
		}
	}
	return os.WriteFile(c.Output, data, 0o644)
}
