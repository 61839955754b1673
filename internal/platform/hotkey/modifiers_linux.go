//go:build linux

package hotkey

import (
	"golang.design/x/hotkey"

	"github.com/dshills/keychord/internal/input/key"
)

// On X11, Alt is Mod1 and Super is Mod4.
var modifierMap = map[key.Modifier]hotkey.Modifier{
	key.ModCtrl:  hotkey.ModCtrl,
	key.ModShift: hotkey.ModShift,
	key.ModAlt:   hotkey.Mod1,
	key.ModMeta:  hotkey.Mod4,
}
