package cmd

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/keymap"
)

// binder keeps one keymap registered on a pipeline and swaps it on reload.
type binder struct {
	p        *input.Pipeline
	resolver keymap.Resolver
	logger   *slog.Logger

	mu      sync.Mutex
	km      *keymap.Keymap
	entries []keymap.Entry
}

func newBinder(p *input.Pipeline, resolver keymap.Resolver, logger *slog.Logger) *binder {
	return &binder{p: p, resolver: resolver, logger: logger}
}

// load replaces the registered keymap with km. Apply registers nothing on
// error, so a broken file leaves the previous registrations in place.
func (b *binder) load(km *keymap.Keymap) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries, err := keymap.Apply(b.p, km, b.resolver)
	if err != nil {
		return fmt.Errorf("applying %s: %w", km.Name, err)
	}
	for _, e := range b.entries {
		b.p.OffID(e.Pattern, e.ID)
	}
	b.km = km.Clone()
	b.entries = entries
	b.logger.Info("bindings loaded", "keymap", km.Name, "source", km.Source, "count", len(entries))
	return nil
}

// reload loads the keymap again from its source file.
func (b *binder) reload() error {
	b.mu.Lock()
	km := b.km
	b.mu.Unlock()
	if km == nil || km.Source == "" {
		return nil
	}
	next, err := keymap.Load(km.Source)
	if err != nil {
		return err
	}
	return b.load(next)
}

// keymap returns a copy of the registered keymap, or nil before load.
func (b *binder) keymap() *keymap.Keymap {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.km == nil {
		return nil
	}
	return b.km.Clone()
}
