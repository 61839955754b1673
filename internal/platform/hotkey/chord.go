package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"

	"github.com/dshills/keychord/internal/input/key"
)

// keyMap maps normalized identifiers to system hotkey keys. Only keys every
// platform backend can grab are listed.
var keyMap = map[string]hotkey.Key{
	" ":          hotkey.KeySpace,
	"space":      hotkey.KeySpace,
	"enter":      hotkey.KeyReturn,
	"escape":     hotkey.KeyEscape,
	"delete":     hotkey.KeyDelete,
	"tab":        hotkey.KeyTab,
	"arrowleft":  hotkey.KeyLeft,
	"arrowright": hotkey.KeyRight,
	"arrowup":    hotkey.KeyUp,
	"arrowdown":  hotkey.KeyDown,
	"0":          hotkey.Key0,
	"1":          hotkey.Key1,
	"2":          hotkey.Key2,
	"3":          hotkey.Key3,
	"4":          hotkey.Key4,
	"5":          hotkey.Key5,
	"6":          hotkey.Key6,
	"7":          hotkey.Key7,
	"8":          hotkey.Key8,
	"9":          hotkey.Key9,
	"a":          hotkey.KeyA,
	"b":          hotkey.KeyB,
	"c":          hotkey.KeyC,
	"d":          hotkey.KeyD,
	"e":          hotkey.KeyE,
	"f":          hotkey.KeyF,
	"g":          hotkey.KeyG,
	"h":          hotkey.KeyH,
	"i":          hotkey.KeyI,
	"j":          hotkey.KeyJ,
	"k":          hotkey.KeyK,
	"l":          hotkey.KeyL,
	"m":          hotkey.KeyM,
	"n":          hotkey.KeyN,
	"o":          hotkey.KeyO,
	"p":          hotkey.KeyP,
	"q":          hotkey.KeyQ,
	"r":          hotkey.KeyR,
	"s":          hotkey.KeyS,
	"t":          hotkey.KeyT,
	"u":          hotkey.KeyU,
	"v":          hotkey.KeyV,
	"w":          hotkey.KeyW,
	"x":          hotkey.KeyX,
	"y":          hotkey.KeyY,
	"z":          hotkey.KeyZ,
	"f1":         hotkey.KeyF1,
	"f2":         hotkey.KeyF2,
	"f3":         hotkey.KeyF3,
	"f4":         hotkey.KeyF4,
	"f5":         hotkey.KeyF5,
	"f6":         hotkey.KeyF6,
	"f7":         hotkey.KeyF7,
	"f8":         hotkey.KeyF8,
	"f9":         hotkey.KeyF9,
	"f10":        hotkey.KeyF10,
	"f11":        hotkey.KeyF11,
	"f12":        hotkey.KeyF12,
}

// displayNames restores the reported spelling of named keys.
var displayNames = map[string]string{
	"space":      " ",
	"enter":      "Enter",
	"escape":     "Escape",
	"delete":     "Delete",
	"tab":        "Tab",
	"arrowleft":  "ArrowLeft",
	"arrowright": "ArrowRight",
	"arrowup":    "ArrowUp",
	"arrowdown":  "ArrowDown",
}

// Chord is a single system-wide key combination: modifiers plus one key.
type Chord struct {
	// Key is the logical identifier reported for the key, e.g. "k" or "F5".
	Key string

	// Modifiers are the modifiers held with the key.
	Modifiers key.Modifier

	hk hotkey.Key
}

// ParseChord parses a combination like "ctrl+shift+k". Modifier names are
// those accepted by key.ModifierFromName. Exactly one non-modifier key is
// required, and alternatives ("|") are not accepted since the system grabs
// one combination per registration.
func ParseChord(s string) (Chord, error) {
	if strings.Contains(s, "|") {
		return Chord{}, fmt.Errorf("%w: alternatives not supported: %q", ErrInvalidChord, s)
	}

	var c Chord
	var name string
	for _, tok := range strings.Split(s, "+") {
		tok = key.Trim(tok)
		if tok == "" {
			return Chord{}, fmt.Errorf("%w: empty token in %q", ErrInvalidChord, s)
		}
		if mod := key.ModifierFromName(tok); mod != key.ModNone {
			c.Modifiers |= mod
			continue
		}
		if name != "" {
			return Chord{}, fmt.Errorf("%w: more than one key in %q", ErrInvalidChord, s)
		}
		name = tok
	}
	if name == "" {
		return Chord{}, fmt.Errorf("%w: no key in %q", ErrInvalidChord, s)
	}

	hk, ok := keyMap[name]
	if !ok {
		return Chord{}, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	c.hk = hk
	c.Key = displayName(name)
	return c, nil
}

// String returns the chord in pattern syntax, e.g. "control+shift+k". The
// space key is written by its code, "space", since pattern tokens are
// trimmed.
func (c Chord) String() string {
	var parts []string
	for _, name := range c.Modifiers.Keys() {
		parts = append(parts, key.Normalize(name))
	}
	id := key.Normalize(c.Key)
	if id == " " {
		id = "space"
	}
	return strings.Join(append(parts, id), "+")
}

func displayName(name string) string {
	if d, ok := displayNames[name]; ok {
		return d
	}
	if len(name) >= 2 && name[0] == 'f' {
		return "F" + name[1:]
	}
	return name
}

// systemModifiers converts modifier flags to the platform's hotkey modifiers.
func systemModifiers(mods key.Modifier) []hotkey.Modifier {
	var out []hotkey.Modifier
	for _, name := range mods.Keys() {
		if m, ok := modifierMap[key.ModifierFromName(name)]; ok {
			out = append(out, m)
		}
	}
	return out
}
