//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"github.com/dshills/keychord/internal/input/key"
)

var modifierMap = map[key.Modifier]hotkey.Modifier{
	key.ModCtrl:  hotkey.ModCtrl,
	key.ModShift: hotkey.ModShift,
	key.ModAlt:   hotkey.ModAlt,
	key.ModMeta:  hotkey.ModWin,
}
