package keymap

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/event/dispatch"
	"github.com/dshills/keychord/internal/input/combo"
)

// Registrar accepts registrations. Both Registry and input.Pipeline implement it.
type Registrar interface {
	On(pattern string, h dispatch.Handler, opts ...Option) Entry
}

// Registry is an insertion-ordered mapping from pattern to entries.
// It is safe for concurrent use; callers iterating during mutation see
// whatever state each call observes, with no cross-call atomicity.
type Registry struct {
	mu sync.RWMutex

	// order holds pattern keys in insertion order.
	order []string

	// entries holds the entry list per pattern key.
	entries map[string][]Entry

	// compiled caches the split form of each pattern key.
	compiled map[string]combo.Pattern
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  make(map[string][]Entry),
		compiled: make(map[string]combo.Pattern),
	}
}

// On registers h under pattern and returns the new entry.
// With Once, the entry replaces every existing entry for pattern.
func (r *Registry) On(pattern string, h dispatch.Handler, opts ...Option) Entry {
	e := NewEntry(pattern, h, opts...)
	r.Add(e)
	return e
}

// Add inserts a prepared entry, honoring its Once flag.
func (r *Registry) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.entries[e.Pattern]
	if !ok {
		r.order = append(r.order, e.Pattern)
		r.compiled[e.Pattern] = combo.Compile(e.Pattern)
	}
	if e.Once {
		r.entries[e.Pattern] = []Entry{e}
		return
	}
	// Copy on write so snapshots handed out by Entries stay stable.
	next := make([]Entry, len(list), len(list)+1)
	copy(next, list)
	r.entries[e.Pattern] = append(next, e)
}

// Off removes every entry of pattern whose handler is h, compared with
// dispatch.Same, and returns the number removed. Unknown patterns and
// handlers are a no-op. Handlers without identity, such as a bare
// dispatch.HandlerFunc, are only removable with OffID.
func (r *Registry) Off(pattern string, h dispatch.Handler) int {
	return r.removeWhere(pattern, func(e Entry) bool {
		return dispatch.Same(e.Handler, h)
	})
}

// OffID removes the entry with the given ID and reports whether it existed.
func (r *Registry) OffID(pattern string, id uuid.UUID) bool {
	return r.removeWhere(pattern, func(e Entry) bool {
		return e.ID == id
	}) > 0
}

func (r *Registry) removeWhere(pattern string, match func(Entry) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.entries[pattern]
	if !ok {
		return 0
	}
	next := make([]Entry, 0, len(list))
	for _, e := range list {
		if !match(e) {
			next = append(next, e)
		}
	}
	// The pattern keeps its position even when its list becomes empty.
	r.entries[pattern] = next
	return len(list) - len(next)
}

// OffAll removes pattern and all of its entries.
func (r *Registry) OffAll(pattern string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[pattern]; !ok {
		return
	}
	delete(r.entries, pattern)
	delete(r.compiled, pattern)
	for i, p := range r.order {
		if p == pattern {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
}

// Entries returns a copy of the entries registered under pattern.
func (r *Registry) Entries(pattern string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.entries[pattern]
	if len(list) == 0 {
		return nil
	}
	out := make([]Entry, len(list))
	copy(out, list)
	return out
}

// Lookup returns the compiled pattern and the current entries for pattern.
// ok is false when the pattern is not registered.
func (r *Registry) Lookup(pattern string) (p combo.Pattern, entries []Entry, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.entries[pattern]
	if !ok {
		return combo.Pattern{}, nil, false
	}
	return r.compiled[pattern], list, true
}

// Patterns returns the registered pattern keys in insertion order.
func (r *Registry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered pattern keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Count returns the total number of entries across all patterns.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.entries {
		n += len(list)
	}
	return n
}

// All returns every entry in dispatch order.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, p := range r.order {
		out = append(out, r.entries[p]...)
	}
	return out
}

// Clear removes every pattern and entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
	r.entries = make(map[string][]Entry)
	r.compiled = make(map[string]combo.Pattern)
}
