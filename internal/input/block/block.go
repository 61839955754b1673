// Package block decides whether a key signal should bypass shortcut handling
// because it originated from a text-entry-like element.
package block

import (
	"sync"

	"github.com/dshills/keychord/internal/input/element"
	"github.com/dshills/keychord/internal/input/key"
)

// DefaultElements are the tag names blocked by default.
var DefaultElements = []string{"input", "textarea", "select", "option"}

// DefaultAttributes are the attribute names blocked by default.
var DefaultAttributes = []string{"contenteditable", "block-keypress"}

// Blocker holds the blocked tag and attribute lists.
// It is safe for concurrent use.
type Blocker struct {
	mu         sync.RWMutex
	elements   []string
	attributes []string
}

// New creates a blocker with the default lists.
func New() *Blocker {
	return &Blocker{
		elements:   append([]string(nil), DefaultElements...),
		attributes: append([]string(nil), DefaultAttributes...),
	}
}

// NewWith creates a blocker with explicit lists. Nil slices mean empty lists.
func NewWith(elements, attributes []string) *Blocker {
	return &Blocker{
		elements:   normalizeAll(elements),
		attributes: normalizeAll(attributes),
	}
}

// Blocked reports whether a signal from el should skip dispatch.
// The tag name is checked on el only; attributes are checked on el and every
// ancestor up to the root. A nil element is never blocked.
func (b *Blocker) Blocked(el element.Element) bool {
	if el == nil {
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if contains(b.elements, key.Normalize(el.LocalName())) {
		return true
	}
	if len(b.attributes) == 0 {
		return false
	}

	blocked := false
	element.Ancestors(el, func(n element.Element) bool {
		for _, attr := range b.attributes {
			if n.HasAttribute(attr) {
				blocked = true
				return false
			}
		}
		return true
	})
	return blocked
}

// AddElement appends a blocked tag name.
func (b *Blocker) AddElement(name string) {
	b.mu.Lock()
	b.elements = append(b.elements, key.Normalize(name))
	b.mu.Unlock()
}

// RemoveElement removes every occurrence of a blocked tag name.
func (b *Blocker) RemoveElement(name string) {
	b.mu.Lock()
	b.elements = remove(b.elements, key.Normalize(name))
	b.mu.Unlock()
}

// AddAttribute appends a blocked attribute name.
func (b *Blocker) AddAttribute(name string) {
	b.mu.Lock()
	b.attributes = append(b.attributes, key.Normalize(name))
	b.mu.Unlock()
}

// RemoveAttribute removes every occurrence of a blocked attribute name.
func (b *Blocker) RemoveAttribute(name string) {
	b.mu.Lock()
	b.attributes = remove(b.attributes, key.Normalize(name))
	b.mu.Unlock()
}

// Elements returns a copy of the blocked tag names.
func (b *Blocker) Elements() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.elements...)
}

// Attributes returns a copy of the blocked attribute names.
func (b *Blocker) Attributes() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.attributes...)
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, key.Normalize(n))
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
