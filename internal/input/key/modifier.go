package key

import "strings"

// Modifier is a bitset of held modifier keys, as reported with a signal.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	// ModMeta is Cmd on macOS and the Windows key elsewhere.
	ModMeta
)

// modifierKeys lists each flag with its logical key identifier and short
// label, in press order.
var modifierKeys = []struct {
	mod   Modifier
	id    string
	label string
}{
	{ModCtrl, "Control", "Ctrl"},
	{ModAlt, "Alt", "Alt"},
	{ModShift, "Shift", "Shift"},
	{ModMeta, "Meta", "Meta"},
}

// Has reports whether any flag of mod is set in m.
func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

func (m Modifier) HasShift() bool { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool  { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool   { return m.Has(ModAlt) }
func (m Modifier) HasMeta() bool  { return m.Has(ModMeta) }

// Without clears the flags of mod.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// IsEmpty reports whether no flag is set.
func (m Modifier) IsEmpty() bool { return m == ModNone }

// String joins the set flags as "Ctrl+Alt+Shift+Meta".
func (m Modifier) String() string {
	var labels []string
	for _, k := range modifierKeys {
		if m.Has(k.mod) {
			labels = append(labels, k.label)
		}
	}
	return strings.Join(labels, "+")
}

// Keys returns the logical identifiers of the set flags in press order:
// Control, Alt, Shift, Meta.
func (m Modifier) Keys() []string {
	var ids []string
	for _, k := range modifierKeys {
		if m.Has(k.mod) {
			ids = append(ids, k.id)
		}
	}
	return ids
}

// modifierAliases maps lower-cased key identifiers and pattern tokens to
// their flag. Identifiers are platform spellings; "os" is what some
// browsers report for the Windows key.
var modifierAliases = map[string]Modifier{
	"control": ModCtrl,
	"ctrl":    ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"win":     ModMeta,
	"super":   ModMeta,
	"os":      ModMeta,
}

// ModifierFromName returns the flag named by a key identifier or alias,
// ignoring case and surrounding whitespace, or ModNone.
func ModifierFromName(name string) Modifier {
	return modifierAliases[Trim(name)]
}
