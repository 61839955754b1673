package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/config/watcher"
	"github.com/dshills/keychord/internal/event/loop"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/platform/terminal"
	"github.com/dshills/keychord/internal/script"
)

// Run dispatches shortcuts typed in the terminal until a quit binding fires.
type Run struct{}

// screenHost adapts the view to the built-in actions.
type screenHost struct {
	*view
	quit context.CancelFunc
}

func (h screenHost) Quit() { h.quit() }

// Run is called by kong when the run command is executed.
func (r *Run) Run(settings *config.Settings, logger *slog.Logger) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrNotTerminal
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runSession(ctx, screen, settings, logger)
}

// runSession runs the pipeline on screen until ctx is done or quit fires.
func runSession(ctx context.Context, screen tcell.Screen, settings *config.Settings, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	km, err := settings.LoadKeymap()
	if err != nil {
		return err
	}

	lp := loop.New(loop.WithLogger(logger))
	v := newView(screen, fmt.Sprintf("keychord: %s (%d bindings)", km.Name, len(km.Bindings)))

	src := terminal.New(screen,
		terminal.WithLogger(logger),
		terminal.WithEventHandler(func(ev tcell.Event) {
			if _, ok := ev.(*tcell.EventResize); ok {
				_ = lp.Post(func() {
					screen.Sync()
					v.draw()
				})
			}
		}),
	)

	var p *input.Pipeline
	target := observedTarget{Target: src, after: func() {
		_ = lp.Post(func() { v.SetPressed(p.Pressed()) })
	}}

	opts := append(settings.PipelineOptions(),
		input.WithScheduler(lp),
		input.WithLogger(logger),
		input.WithErrorHandler(func(_ *key.Event, pattern string, err error) {
			v.Print(fmt.Sprintf("error: %s: %v", pattern, err))
		}),
	)
	p = input.New(target, opts...)

	engine := script.New(script.WithLogger(logger))
	defer func() { _ = engine.Close() }()

	b := newBinder(p, actionResolver(screenHost{view: v, quit: cancel}, engine), logger)
	if err := b.load(km); err != nil {
		return err
	}

	p.Start()
	defer p.Stop()

	if err := src.Start(); err != nil {
		return err
	}
	defer func() { _ = src.Stop() }()

	if settings.Watch && km.Source != "" {
		w, err := watchBindings(km.Source, lp, b, v, logger)
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
	}

	v.draw()
	err = lp.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchBindings reloads the bindings file on the loop whenever it changes.
func watchBindings(path string, lp input.Scheduler, b *binder, out interface{ Print(string) }, logger *slog.Logger) (*watcher.Watcher, error) {
	w := watcher.New(watcher.WithLogger(logger))
	if err := w.Watch(path); err != nil {
		return nil, err
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		_ = lp.Post(func() {
			if err := b.reload(); err != nil {
				logger.Warn("reloading bindings failed", "path", ev.Path, "error", err)
				out.Print(fmt.Sprintf("reload failed: %v", err))
				return
			}
			out.Print(fmt.Sprintf("reloaded %s (%d bindings)", ev.Path, len(b.keymap().Bindings)))
		})
	})
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}
