package key

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dshills/keychord/internal/input/element"
)

// Type distinguishes key-down from key-up signals.
type Type uint8

const (
	// TypeKeyDown is a key press.
	TypeKeyDown Type = iota + 1

	// TypeKeyUp is a key release.
	TypeKeyUp
)

// String returns "keydown" or "keyup".
func (t Type) String() string {
	switch t {
	case TypeKeyDown:
		return "keydown"
	case TypeKeyUp:
		return "keyup"
	default:
		return "unknown"
	}
}

// Event is a single key signal delivered by a signal source.
// Events carry platform-visible side-effect flags and must be passed by pointer.
type Event struct {
	// Type is keydown or keyup.
	Type Type

	// Key is the logical identifier as reported, e.g. "Control" or "a".
	Key string

	// Code is the physical key code as reported, e.g. "ControlLeft" or "KeyA".
	Code string

	// Modifiers contains the modifier flags active when the signal fired.
	// The platform meta flag is Modifiers.HasMeta().
	Modifiers Modifier

	// Repeat is true for auto-repeated key-downs.
	Repeat bool

	// Target is the node the signal originated from. May be nil.
	Target element.Element

	// Timestamp is when the event occurred.
	Timestamp time.Time

	defaultPrevented   atomic.Bool
	propagationStopped atomic.Bool
}

// NewKeyDown creates a key-down event with the current timestamp.
func NewKeyDown(key, code string, mods Modifier) *Event {
	return &Event{
		Type:      TypeKeyDown,
		Key:       key,
		Code:      code,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewKeyUp creates a key-up event with the current timestamp.
func NewKeyUp(key, code string, mods Modifier) *Event {
	return &Event{
		Type:      TypeKeyUp,
		Key:       key,
		Code:      code,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// WithTarget sets the originating node and returns the event.
func (e *Event) WithTarget(el element.Element) *Event {
	e.Target = el
	return e
}

// ID returns the lower-cased logical identifier.
func (e *Event) ID() string {
	return Normalize(e.Key)
}

// PhysicalCode returns the lower-cased physical code.
func (e *Event) PhysicalCode() string {
	return Normalize(e.Code)
}

// IsModifierKey returns true if the key itself is a modifier key.
func (e *Event) IsModifierKey() bool {
	return ModifierFromName(e.Key) != ModNone
}

// PreventDefault asks the platform to skip its default action for this event.
func (e *Event) PreventDefault() {
	e.defaultPrevented.Store(true)
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented.Load()
}

// StopPropagation asks the platform not to deliver this event further.
func (e *Event) StopPropagation() {
	e.propagationStopped.Store(true)
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped.Load()
}

// String returns a compact representation like "keydown Control+a (KeyA)".
func (e *Event) String() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	b.WriteByte(' ')
	if mods := e.Modifiers.Without(ModifierFromName(e.Key)); !mods.IsEmpty() {
		b.WriteString(mods.String())
		b.WriteByte('+')
	}
	b.WriteString(e.Key)
	if e.Code != "" && e.Code != e.Key {
		b.WriteString(" (")
		b.WriteString(e.Code)
		b.WriteByte(')')
	}
	return b.String()
}

// GoString implements fmt.GoStringer for debugging.
func (e *Event) GoString() string {
	return fmt.Sprintf("Event{Type: %s, Key: %q, Code: %q, Modifiers: %s}",
		e.Type, e.Key, e.Code, e.Modifiers.String())
}
