package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keychord/internal/event/dispatch"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// Handler is a compiled Lua chunk bound to an engine.
type Handler struct {
	engine *Engine
	proto  *lua.FunctionProto
	src    string
}

// Handler compiles src into a shortcut handler.
func (e *Engine) Handler(src string) (*Handler, error) {
	proto, err := e.Compile("handler", src)
	if err != nil {
		return nil, err
	}
	return &Handler{engine: e, proto: proto, src: src}, nil
}

// Handle implements dispatch.Handler. The chunk runs synchronously.
func (h *Handler) Handle(ev *key.Event) *dispatch.Future {
	if err := h.engine.Run(h.proto, ev); err != nil {
		return dispatch.Resolved(err)
	}
	return nil
}

// Source returns the Lua source of the handler.
func (h *Handler) Source() string {
	return h.src
}

// Resolver compiles bindings that carry a script and hands the rest to next.
// A nil next rejects bindings without a script.
func (e *Engine) Resolver(next keymap.Resolver) keymap.Resolver {
	return keymap.ResolverFunc(func(b keymap.Binding) (dispatch.Handler, error) {
		if b.Script != "" {
			h, err := e.Handler(b.Script)
			if err != nil {
				return nil, err
			}
			return h, nil
		}
		if next == nil {
			return nil, fmt.Errorf("%w: no script", keymap.ErrUnresolved)
		}
		return next.Resolve(b)
	})
}

var _ dispatch.Handler = (*Handler)(nil)
