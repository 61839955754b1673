// Package tracker records which keys are currently held down.
//
// The tracker keeps two parallel sets: pressed logical identifiers and
// pressed physical codes, both lower-cased. A key-down adds to both, a
// key-up removes from both and a focus loss clears both. Every mutation and
// every pattern evaluation takes the same lock, so a matcher never observes
// a signal half-applied.
//
// # Modifier Suppression
//
// While the platform meta modifier is held, many platforms never deliver the
// key-up for the other key of the chord. NeedsRelease identifies such
// key-downs and ReleaseLater schedules their removal through a Deferrer, so
// the dispatch pass triggered by the key-down still sees the key as held and
// the stale entry is gone before the next signal.
package tracker

import (
	"sync"

	"github.com/dshills/keychord/internal/input/combo"
	"github.com/dshills/keychord/internal/input/key"
)

// Deferrer schedules a callback after the current synchronous segment and
// before the next signal is processed.
type Deferrer interface {
	Defer(fn func())
}

// Tracker holds the active-key state.
type Tracker struct {
	mu    sync.RWMutex
	ids   key.Set
	codes key.Set

	deferrer Deferrer
}

// New creates a tracker. A nil deferrer makes ReleaseLater remove keys
// immediately.
func New(deferrer Deferrer) *Tracker {
	return &Tracker{deferrer: deferrer}
}

// KeyDown records a pressed key.
func (t *Tracker) KeyDown(id, code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids.Add(id)
	t.codes.Add(code)
}

// KeyUp removes a released key.
func (t *Tracker) KeyUp(id, code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids.Remove(id)
	t.codes.Remove(code)
}

// Blur clears all state. Used on focus loss, where key-ups may never arrive.
func (t *Tracker) Blur() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids.Clear()
	t.codes.Clear()
}

// Reset is an alias for Blur used when listening stops.
func (t *Tracker) Reset() {
	t.Blur()
}

// Match evaluates a compiled pattern against the current state.
func (t *Tracker) Match(p combo.Pattern) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return p.Match(&t.ids, &t.codes)
}

// Has reports whether the identifier is held.
func (t *Tracker) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ids.Has(id)
}

// HasCode reports whether the physical code is held.
func (t *Tracker) HasCode(code string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.codes.Has(code)
}

// Len returns the number of held identifiers.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ids.Len()
}

// Keys returns the held identifiers in press order.
func (t *Tracker) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ids.Slice()
}

// Codes returns the held physical codes in press order.
func (t *Tracker) Codes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.codes.Slice()
}

// exempt keys are chord modifiers whose key-up the platform still delivers.
var exempt = map[string]bool{
	"meta":    true,
	"control": true,
	"shift":   true,
}

// NeedsRelease reports whether a key-down will likely never see its key-up:
// the platform meta flag is set and the key is not meta, control or shift.
func NeedsRelease(ev *key.Event) bool {
	return ev.Modifiers.HasMeta() && !exempt[ev.ID()]
}

// ReleaseLater removes the key after the current synchronous segment.
func (t *Tracker) ReleaseLater(id, code string) {
	if t.deferrer == nil {
		t.KeyUp(id, code)
		return
	}
	t.deferrer.Defer(func() {
		t.KeyUp(id, code)
	})
}
