package cmd

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mgutz/ansi"

	"github.com/dshills/keychord/internal/input/combo"
	"github.com/dshills/keychord/internal/input/key"
)

// Check runs the pattern matcher on a set of held keys.
type Check struct {
	Pattern string   `arg:"" help:"Combination pattern, e.g. 'control+a|meta+a'."`
	Keys    []string `arg:"" optional:"" help:"Held keys by identifier, e.g. Control a."`
	Codes   []string `help:"Held physical codes. Defaults to the standard code of each key." placeholder:"CODE"`
	NoColor bool     `help:"Disable colored output." env:"NO_COLOR"`
}

// Run is called by kong when the check command is executed.
func (c *Check) Run(kctx *kong.Context) error {
	ansi.DisableColors(c.NoColor)
	out := kctx.Stdout

	ids := key.NewSet()
	codes := key.NewSet()
	for _, k := range c.Keys {
		ids.Add(k)
	}
	if len(c.Codes) > 0 {
		for _, code := range c.Codes {
			codes.Add(code)
		}
	} else {
		for _, k := range c.Keys {
			codes.Add(key.CodeFor(k))
		}
	}

	p := combo.Compile(c.Pattern)
	fmt.Fprintf(out, "held:  %s\n", strings.Join(ids.Slice(), " "))
	fmt.Fprintf(out, "codes: %s\n", strings.Join(codes.Slice(), " "))

	for _, alt := range p.Alternatives() {
		joined := strings.Join(alt, "+")
		mark := ansi.Color("no   ", "red")
		if combo.Compile(joined).Match(ids, codes) {
			mark = ansi.Color("match", "green")
		}
		fmt.Fprintf(out, "  %s %s\n", mark, joined)
	}

	if p.Match(ids, codes) {
		fmt.Fprintln(out, ansi.Color("MATCH", "green+b"))
	} else {
		fmt.Fprintln(out, ansi.Color("NO MATCH", "red+b"))
	}

	for _, problem := range p.Problems() {
		fmt.Fprintln(out, ansi.Color("problem: ", "yellow")+problem)
	}
	return nil
}
