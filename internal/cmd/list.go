package cmd

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mgutz/ansi"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/input/combo"
)

// List prints the bindings of the configured bindings file.
type List struct {
	NoColor bool `help:"Disable colored output." env:"NO_COLOR"`
}

// Run is called by kong when the list command is executed.
func (c *List) Run(kctx *kong.Context, settings *config.Settings) error {
	ansi.DisableColors(c.NoColor)
	out := kctx.Stdout

	km, err := settings.LoadKeymap()
	if err != nil {
		return err
	}

	source := km.Source
	if source == "" {
		source = "built-in"
	}
	fmt.Fprintf(out, "%s (%s)\n", ansi.Color(km.Name, "white+b"), source)

	width := 0
	for _, b := range km.Bindings {
		width = max(width, len(b.Keys))
	}

	for _, b := range km.Bindings {
		line := fmt.Sprintf("  %s  %s", ansi.Color(fmt.Sprintf("%-*s", width, b.Keys), "cyan"), b.Target())
		if flags := bindingFlags(b.PreventDefault, b.StopPropagation, b.Once); flags != "" {
			line += " " + ansi.Color("["+flags+"]", "magenta")
		}
		if b.Description != "" {
			line += "  " + b.Description
		}
		fmt.Fprintln(out, line)
		for _, problem := range combo.Compile(b.Keys).Problems() {
			fmt.Fprintln(out, "    "+ansi.Color("problem: ", "yellow")+problem)
		}
	}
	return nil
}

func bindingFlags(preventDefault, stopPropagation, once bool) string {
	var flags []string
	if preventDefault {
		flags = append(flags, "prevent")
	}
	if stopPropagation {
		flags = append(flags, "stop")
	}
	if once {
		flags = append(flags, "once")
	}
	return strings.Join(flags, ",")
}
