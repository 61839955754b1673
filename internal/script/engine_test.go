package script

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keychord/internal/event/dispatch"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := New(opts...)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestHandlerSideEffects(t *testing.T) {
	e := newEngine(t)
	h, err := e.Handler(`
		if event.shift and event.key == "S" then
			prevent_default()
		end
		if event.code == "KeyS" then
			stop_propagation()
		end
	`)
	require.NoError(t, err)

	ev := key.NewKeyDown("S", "KeyS", key.ModShift)
	require.NoError(t, h.Handle(ev).Err())
	assert.True(t, ev.DefaultPrevented())
	assert.True(t, ev.PropagationStopped())

	plain := key.NewKeyDown("s", "KeyX", key.ModNone)
	require.NoError(t, h.Handle(plain).Err())
	assert.False(t, plain.DefaultPrevented())
	assert.False(t, plain.PropagationStopped())
}

func TestEventTable(t *testing.T) {
	e := newEngine(t)
	ev := key.NewKeyDown("a", "KeyA", key.ModCtrl|key.ModAlt|key.ModMeta)
	ev.Repeat = true

	err := e.DoString(`
		assert(event.type == "keydown")
		assert(event.ctrl and event.alt and event.meta)
		assert(not event.shift)
		assert(event["repeat"])
	`, ev)
	assert.NoError(t, err)
}

func TestLogWritesToLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := newEngine(t, WithLogger(logger))

	require.NoError(t, e.DoString(`log("saved", 42) print("also")`, key.NewKeyDown("s", "KeyS", key.ModCtrl)))
	out := buf.String()
	assert.Contains(t, out, "saved 42")
	assert.Contains(t, out, "also")
	assert.Contains(t, out, "key=s")
}

func TestSyntaxErrorFailsCompile(t *testing.T) {
	e := newEngine(t)
	_, err := e.Handler(`if then`)
	assert.Error(t, err)
}

func TestRuntimeErrorBecomesHandlerError(t *testing.T) {
	e := newEngine(t)
	h, err := e.Handler(`error("nope")`)
	require.NoError(t, err)

	f := h.Handle(key.NewKeyDown("a", "KeyA", key.ModNone))
	require.True(t, f.Ready())
	require.Error(t, f.Err())
	assert.Contains(t, f.Err().Error(), "nope")
}

func TestSandbox(t *testing.T) {
	e := newEngine(t)
	for _, name := range []string{"io", "os", "debug", "package", "dofile", "loadfile", "load", "require"} {
		t.Run(name, func(t *testing.T) {
			err := e.DoString(`assert(`+name+` == nil)`, key.NewKeyDown("a", "KeyA", key.ModNone))
			assert.NoError(t, err)
		})
	}

	err := e.DoString(`assert(string.upper("a") == "A" and math.max(1, 2) == 2 and table.concat({"x"}) == "x")`, nil)
	assert.NoError(t, err)
}

func TestTimeout(t *testing.T) {
	e := newEngine(t, WithTimeout(50*time.Millisecond))
	start := time.Now()
	err := e.DoString(`while true do end`, key.NewKeyDown("a", "KeyA", key.ModNone))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.NoError(t, e.DoString(`local x = 1`, nil), "engine is usable after a timeout")
}

func TestEventFunctionsOutsideHandler(t *testing.T) {
	e := newEngine(t)
	err := e.DoString(`prevent_default()`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrNoEvent.Error())
}

func TestClosedEngine(t *testing.T) {
	e := New()
	h, err := e.Handler(`local x = 1`)
	require.NoError(t, err)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.ErrorIs(t, h.Handle(key.NewKeyDown("a", "KeyA", key.ModNone)).Err(), ErrClosed)
}

func TestResolver(t *testing.T) {
	e := newEngine(t)
	action := dispatch.Sync(func(*key.Event) error { return nil })
	r := e.Resolver(keymap.Actions{"save": action})

	h, err := r.Resolve(keymap.Binding{Keys: "f1", Script: `log("help")`})
	require.NoError(t, err)
	assert.IsType(t, &Handler{}, h)

	h, err = r.Resolve(keymap.NewBinding("control+s", "save"))
	require.NoError(t, err)
	assert.True(t, dispatch.Same(action, h))

	_, err = r.Resolve(keymap.NewBinding("control+o", "open"))
	assert.ErrorIs(t, err, keymap.ErrUnresolved)

	_, err = e.Resolver(nil).Resolve(keymap.NewBinding("a", "x"))
	assert.ErrorIs(t, err, keymap.ErrUnresolved)

	_, err = r.Resolve(keymap.Binding{Keys: "a", Script: "if then"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, keymap.ErrUnresolved))
	assert.True(t, strings.Contains(err.Error(), "handler"))
}
