package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/dshills/keychord/internal/input/key"
)

// DefaultTimeout bounds a single handler run.
const DefaultTimeout = 2 * time.Second

// Engine wraps one sandboxed Lua state. gopher-lua states are not
// goroutine-safe; every run holds the engine mutex.
type Engine struct {
	mu      sync.Mutex
	L       *lua.LState
	closed  bool
	current *key.Event

	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-run timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLogger sets the logger used by the Lua log() function.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine with a fresh sandboxed state.
func New(opts ...Option) *Engine {
	e := &Engine{
		timeout: DefaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)
	e.install()
	return e
}

// openSafeLibraries opens only libraries without file or process access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// install registers the functions handlers can call.
func (e *Engine) install() {
	e.L.SetGlobal("prevent_default", e.L.NewFunction(func(L *lua.LState) int {
		ev := e.event(L)
		ev.PreventDefault()
		return 0
	}))
	e.L.SetGlobal("stop_propagation", e.L.NewFunction(func(L *lua.LState) int {
		ev := e.event(L)
		ev.StopPropagation()
		return 0
	}))

	logFn := e.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		attrs := []any{"source", "lua"}
		if e.current != nil {
			attrs = append(attrs, "key", e.current.ID())
		}
		e.logger.Info(strings.Join(parts, " "), attrs...)
		return 0
	})
	e.L.SetGlobal("log", logFn)
	// print would write to the terminal the host may be drawing on.
	e.L.SetGlobal("print", logFn)
}

// event returns the event of the running handler or raises a Lua error.
func (e *Engine) event(L *lua.LState) *key.Event {
	if e.current == nil {
		L.RaiseError("%s", ErrNoEvent.Error())
	}
	return e.current
}

// Compile parses src into a reusable function prototype.
func (e *Engine) Compile(name, src string) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	return proto, nil
}

// Run executes a compiled chunk with ev in scope.
func (e *Engine) Run(proto *lua.FunctionProto, ev *key.Event) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	if e.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		e.L.SetContext(ctx)
		defer e.L.RemoveContext()
	}

	e.current = ev
	e.L.SetGlobal("event", eventTable(e.L, ev))
	defer func() {
		e.current = nil
		e.L.SetGlobal("event", lua.LNil)
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	e.L.Push(e.L.NewFunctionFromProto(proto))
	if err := e.L.PCall(0, 0, nil); err != nil {
		return fmt.Errorf("running %s: %w", proto.SourceName, err)
	}
	return nil
}

// DoString compiles and runs src once.
func (e *Engine) DoString(src string, ev *key.Event) error {
	proto, err := e.Compile("<string>", src)
	if err != nil {
		return err
	}
	return e.Run(proto, ev)
}

// Close releases the Lua state. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.L.Close()
	e.closed = true
	return nil
}

func eventTable(L *lua.LState, ev *key.Event) *lua.LTable {
	t := L.NewTable()
	if ev == nil {
		return t
	}
	t.RawSetString("key", lua.LString(ev.Key))
	t.RawSetString("code", lua.LString(ev.Code))
	t.RawSetString("type", lua.LString(ev.Type.String()))
	t.RawSetString("meta", lua.LBool(ev.Modifiers.HasMeta()))
	t.RawSetString("ctrl", lua.LBool(ev.Modifiers.HasCtrl()))
	t.RawSetString("alt", lua.LBool(ev.Modifiers.HasAlt()))
	t.RawSetString("shift", lua.LBool(ev.Modifiers.HasShift()))
	t.RawSetString("repeat", lua.LBool(ev.Repeat))
	return t
}
