package cmd

import (
	"fmt"
	"strings"

	"github.com/dshills/keychord/internal/event/dispatch"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/script"
)

// host is what the built-in actions act on.
type host interface {
	Quit()
	Print(line string)
	Clear()
}

// actionResolver resolves the built-in actions against h, then scripts
// through engine. Echo handlers are bound per binding so they can report
// which binding fired.
func actionResolver(h host, engine *script.Engine) keymap.Resolver {
	builtin := keymap.ResolverFunc(func(b keymap.Binding) (dispatch.Handler, error) {
		switch b.Action {
		case keymap.ActionQuit:
			return dispatch.Sync(func(*key.Event) error {
				h.Quit()
				return nil
			}), nil
		case keymap.ActionClear:
			return dispatch.Sync(func(*key.Event) error {
				h.Clear()
				return nil
			}), nil
		case keymap.ActionEcho:
			return dispatch.Sync(func(ev *key.Event) error {
				h.Print(echoLine(b, ev))
				return nil
			}), nil
		}
		return nil, fmt.Errorf("%w: unknown action %q", keymap.ErrUnresolved, b.Action)
	})
	if engine == nil {
		return builtin
	}
	return engine.Resolver(builtin)
}

// echoLine describes a dispatched binding, e.g.
// "control+s|meta+s (Save) <- s [KeyS] Ctrl".
func echoLine(b keymap.Binding, ev *key.Event) string {
	var sb strings.Builder
	sb.WriteString(b.Keys)
	if b.Description != "" {
		fmt.Fprintf(&sb, " (%s)", b.Description)
	}
	fmt.Fprintf(&sb, " <- %s [%s]", displayKey(ev.Key), ev.Code)
	if !ev.Modifiers.IsEmpty() {
		sb.WriteString(" " + ev.Modifiers.String())
	}
	return sb.String()
}

func displayKey(k string) string {
	if k == " " {
		return "Space"
	}
	return k
}
