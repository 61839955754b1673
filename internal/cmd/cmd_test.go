package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/script"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// execute parses args with the real CLI model and runs the selected command.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	var cli CLI
	var out bytes.Buffer
	parser, err := kong.New(&cli,
		kong.Name("keychord"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) { t.Fatal("kong exited") }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	kctx.Bind(&cli.Settings)
	kctx.Bind(discard())
	err = kctx.Run()
	return out.String(), err
}

func writeBindings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		want  []string
		avoid []string
	}{
		{
			name: "match",
			args: []string{"check", "--no-color", "control+a|meta+a", "Control", "a"},
			want: []string{"match control+a", "no    meta+a", "MATCH"},
		},
		{
			name:  "extra key",
			args:  []string{"check", "--no-color", "control+a", "Control", "a", "Shift"},
			want:  []string{"NO MATCH"},
			avoid: []string{"\nMATCH"},
		},
		{
			name: "physical code",
			args: []string{"check", "--no-color", "controlleft+keya", "Control", "a"},
			want: []string{"MATCH", "codes: controlleft keya"},
		},
		{
			name: "explicit codes",
			args: []string{"check", "--no-color", "--codes=KeyQ", "keya", "a"},
			want: []string{"NO MATCH"},
		},
		{
			name: "problems",
			args: []string{"check", "--no-color", "a+|b+b"},
			want: []string{"problem: alternative 1: empty token", `problem: alternative 2: duplicate token "b"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, a := range tt.avoid {
				assert.NotContains(t, out, a)
			}
		})
	}
}

func TestListCommand(t *testing.T) {
	path := writeBindings(t, "editor.yaml", `
bindings:
  - keys: control+s|meta+s
    action: echo
    preventDefault: true
    description: Save
  - keys: f1
    script: log('help')
  - keys: a++b
    action: echo
`)
	out, err := execute(t, "--bindings="+path, "list", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "editor ("+path+")")
	assert.Contains(t, out, "control+s|meta+s  echo [prevent]  Save")
	assert.Contains(t, out, "lua: log('help')")
	assert.Contains(t, out, "problem: alternative 1: empty token")
}

func TestListBuiltIn(t *testing.T) {
	out, err := execute(t, "list", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "default (built-in)")
	assert.Contains(t, out, "quit")
}

func TestExportCommand(t *testing.T) {
	path := writeBindings(t, "keys.toml", `
name = "mine"

[[bindings]]
keys = "control+k"
action = "echo"
once = true
`)
	out, err := execute(t, "--bindings="+path, "export")
	require.NoError(t, err)

	assert.Equal(t, "mine", gjson.Get(out, "name").String())
	assert.Equal(t, "control+k", gjson.Get(out, "bindings.0.keys").String())
	assert.True(t, gjson.Get(out, "bindings.0.once").Bool())
}

func TestExportToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.json")

	_, err := execute(t, "export", "-o", dest)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	km, err := keymap.Decode(keymap.FormatJSON, data)
	require.NoError(t, err)
	assert.Equal(t, len(keymap.DefaultKeymap().Bindings), len(km.Bindings))

	_, err = execute(t, "export", "-o", dest)
	assert.ErrorContains(t, err, "exists")

	_, err = execute(t, "export", "-o", dest, "--force")
	assert.NoError(t, err)
}

func TestChordsOf(t *testing.T) {
	km := keymap.NewKeymap("x")
	km.Add("control+s|meta+s", "echo")
	km.Add("Control+S", "echo")
	km.Add("f1", "echo")
	assert.Equal(t, []string{"control+s", "meta+s", "f1"}, chordsOf(km))
}

// fakeHost records built-in action calls.
type fakeHost struct {
	mu      sync.Mutex
	quits   int
	clears  int
	printed []string
}

func (h *fakeHost) Quit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quits++
}

func (h *fakeHost) Print(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.printed = append(h.printed, line)
}

func (h *fakeHost) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clears++
}

// target delivers signals straight to its listeners.
type target struct {
	mu sync.Mutex
	ls []input.Listener
}

func (t *target) Listen(l input.Listener) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ls = append(t.ls, l)
	return func() {}
}

func (t *target) press(id string, mods key.Modifier) {
	downs, ups := key.Press(id, mods)
	t.mu.Lock()
	ls := append([]input.Listener(nil), t.ls...)
	t.mu.Unlock()
	for _, l := range ls {
		for _, ev := range downs {
			l.HandleKeyDown(ev)
		}
		for _, ev := range ups {
			l.HandleKeyUp(ev)
		}
	}
}

func TestBuiltinActions(t *testing.T) {
	h := &fakeHost{}
	engine := script.New()
	defer func() { _ = engine.Close() }()

	src := &target{}
	p := input.New(src)
	km := keymap.NewKeymap("test")
	km.AddBinding(keymap.NewBinding("control+q", keymap.ActionQuit))
	km.AddBinding(keymap.NewBinding("control+l", keymap.ActionClear))
	km.AddBinding(keymap.NewBinding("control+s", keymap.ActionEcho).WithDescription("Save"))
	km.AddBinding(keymap.NewBinding("f5", "").WithScript("prevent_default()"))

	require.NoError(t, newBinder(p, actionResolver(h, engine), discard()).load(km))
	p.Start()

	src.press("q", key.ModCtrl)
	src.press("l", key.ModCtrl)
	src.press("s", key.ModCtrl)
	src.press("F5", key.ModNone)

	assert.Equal(t, 1, h.quits)
	assert.Equal(t, 1, h.clears)
	assert.Equal(t, []string{"control+s (Save) <- s [KeyS] Ctrl"}, h.printed)
}

func TestUnknownActionRejected(t *testing.T) {
	km := keymap.NewKeymap("test")
	km.Add("f1", "launch")

	p := input.New(&target{})
	err := newBinder(p, actionResolver(&fakeHost{}, nil), discard()).load(km)
	assert.ErrorIs(t, err, keymap.ErrUnresolved)
	assert.Empty(t, p.Patterns())
}

func TestBinderReload(t *testing.T) {
	path := writeBindings(t, "keys.json", `{"bindings":[{"keys":"f1","action":"echo"}]}`)
	h := &fakeHost{}
	src := &target{}
	p := input.New(src)
	b := newBinder(p, actionResolver(h, nil), discard())

	km, err := keymap.Load(path)
	require.NoError(t, err)
	require.NoError(t, b.load(km))
	p.Start()

	require.NoError(t, os.WriteFile(path, []byte(`{"bindings":[{"keys":"f2","action":"echo"}]}`), 0o644))
	require.NoError(t, b.reload())

	src.press("F1", key.ModNone)
	src.press("F2", key.ModNone)
	require.Len(t, h.printed, 1)
	assert.True(t, strings.HasPrefix(h.printed[0], "f2 <- F2"))

	require.NoError(t, os.WriteFile(path, []byte(`{"bindings":[{"keys":"f3","action":"nope"}]}`), 0o644))
	assert.ErrorIs(t, b.reload(), keymap.ErrUnresolved)

	src.press("F2", key.ModNone)
	assert.Len(t, h.printed, 2, "failed reload keeps previous bindings")
	assert.Equal(t, "f2", b.keymap().Bindings[0].Keys)

	b.keymap().Bindings[0].Keys = "mutated"
	assert.Equal(t, "f2", b.keymap().Bindings[0].Keys, "callers get a copy")
}

func TestRunSessionQuits(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 24)

	settings := config.Defaults()
	settings.Bindings = writeBindings(t, "keys.yaml", "bindings:\n  - keys: escape\n    action: quit\n  - keys: f2\n    action: echo\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- runSession(ctx, screen, &settings, discard()) }()

	// Keys injected before the poll loop starts are queued by the screen.
	screen.InjectKey(tcell.KeyF2, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("run session did not quit")
	}
}

func TestRunSessionStopsOnCancel(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()

	settings := config.Defaults()
	settings.Bindings = writeBindings(t, "keys.json", `{"bindings":[{"keys":"f1","action":"echo"}]}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runSession(ctx, screen, &settings, discard()) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run session ignored cancellation")
	}
}

func TestRunSessionRejectsBrokenBindings(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()

	settings := config.Defaults()
	settings.Bindings = writeBindings(t, "keys.json", `{"bindings":[{"keys":"f1","action":"launch"}]}`)

	err := runSession(context.Background(), screen, &settings, discard())
	assert.ErrorIs(t, err, keymap.ErrUnresolved)
}
