package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mgutz/ansi"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/event/loop"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/combo"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/platform/hotkey"
	"github.com/dshills/keychord/internal/script"
)

// Hotkey grabs chords system-wide and dispatches them through the bindings.
type Hotkey struct {
	Chords []string `arg:"" optional:"" help:"Chords to grab, e.g. ctrl+shift+k. Defaults to every alternative of every binding."`
}

// lineHost prints to a writer. Clear is a no-op on a scrolling terminal.
type lineHost struct {
	mu   sync.Mutex
	out  io.Writer
	quit context.CancelFunc
}

func (h *lineHost) Quit() { h.quit() }

func (h *lineHost) Print(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.out, line)
}

func (h *lineHost) Clear() {}

// Run is called by kong when the hotkey command is executed.
func (c *Hotkey) Run(kctx *kong.Context, settings *config.Settings, logger *slog.Logger) error {
	var err error
	hotkey.RunOnMainThread(func() {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = c.run(ctx, kctx.Stdout, settings, logger)
	})
	return err
}

func (c *Hotkey) run(ctx context.Context, out io.Writer, settings *config.Settings, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	km, err := settings.LoadKeymap()
	if err != nil {
		return err
	}

	src := hotkey.New(hotkey.WithLogger(logger))
	defer func() { _ = src.Close() }()

	chords := c.Chords
	if len(chords) == 0 {
		chords = chordsOf(km)
	}
	for _, spec := range chords {
		chord, err := src.Register(spec)
		if err != nil {
			logger.Warn("cannot grab chord", "chord", spec, "error", err)
			fmt.Fprintln(out, ansi.Color("skip ", "yellow")+spec+": "+err.Error())
			continue
		}
		fmt.Fprintln(out, ansi.Color("grab ", "green")+chord.String())
	}
	if len(src.Chords()) == 0 {
		return ErrNoChords
	}

	lp := loop.New(loop.WithLogger(logger))
	host := &lineHost{out: out, quit: cancel}
	p := input.New(src, append(settings.PipelineOptions(),
		input.WithScheduler(lp),
		input.WithLogger(logger),
	)...)

	engine := script.New(script.WithLogger(logger))
	defer func() { _ = engine.Close() }()

	if err := newBinder(p, actionResolver(host, engine), logger).load(km); err != nil {
		return err
	}
	p.Start()
	defer p.Stop()

	err = lp.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// chordsOf lists every alternative of every binding in km, once each.
func chordsOf(km *keymap.Keymap) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range km.Bindings {
		for _, alt := range combo.Compile(b.Keys).Alternatives() {
			chord := strings.Join(alt, "+")
			if chord == "" || seen[chord] {
				continue
			}
			seen[chord] = true
			out = append(out, chord)
		}
	}
	return out
}
