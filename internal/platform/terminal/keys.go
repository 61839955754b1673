package terminal

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/input/key"
)

// namedKeys maps tcell special keys to logical identifiers.
var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyTab:        "Tab",
	tcell.KeyBacktab:    "Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyEscape:     "Escape",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
}

// convertMod converts a tcell modifier mask to key modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

// convertKey returns the logical identifier and modifiers for a tcell key
// event. ok is false for keys with no identifier.
func convertKey(ev *tcell.EventKey) (id string, mods key.Modifier, ok bool) {
	mods = convertMod(ev.Modifiers())
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsUpper(r) {
			mods |= key.ModShift
		}
		return string(r), mods, true

	case k == tcell.KeyBacktab:
		return "Tab", mods | key.ModShift, true

	case k >= tcell.KeyF1 && k <= tcell.KeyF64:
		return fmt.Sprintf("F%d", int(k-tcell.KeyF1)+1), mods, true

	case k == tcell.KeyCtrlSpace:
		return " ", mods | key.ModCtrl, true

	// Tab, Enter, Backspace and Escape share values with control letters;
	// only an explicit Ctrl flag makes them letters.
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		if name, named := namedKeys[k]; named && mods&key.ModCtrl == 0 {
			return name, mods, true
		}
		return string(rune('a' + (k - tcell.KeyCtrlA))), mods | key.ModCtrl, true
	}

	if name, named := namedKeys[k]; named {
		return name, mods, true
	}
	return "", mods, false
}
