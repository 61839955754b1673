package keymap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/keychord/internal/event/dispatch"
	"github.com/dshills/keychord/internal/input/key"
)

const jsonBindings = `{
  "name": "editor",
  "bindings": [
    {"keys": "control+s|meta+s", "action": "save", "preventDefault": true, "description": "Save"},
    {"keys": "f1", "script": "log('help')", "stopPropagation": true, "once": true}
  ]
}`

const yamlBindings = `name: editor
bindings:
  - keys: "control+s|meta+s"
    action: save
    preventDefault: true
    description: Save
  - keys: f1
    script: "log('help')"
    stopPropagation: true
    once: true
`

const tomlBindings = `name = "editor"

[[bindings]]
keys = "control+s|meta+s"
action = "save"
preventDefault = true
description = "Save"

[[bindings]]
keys = "f1"
script = "log('help')"
stopPropagation = true
once = true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"bindings.json", jsonBindings},
		{"bindings.yaml", yamlBindings},
		{"bindings.yml", yamlBindings},
		{"bindings.toml", tomlBindings},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			km, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, "editor", km.Name)
			assert.Equal(t, path, km.Source)
			require.Len(t, km.Bindings, 2)

			save := km.Bindings[0]
			assert.Equal(t, "control+s|meta+s", save.Keys)
			assert.Equal(t, "save", save.Action)
			assert.True(t, save.PreventDefault)
			assert.False(t, save.StopPropagation)
			assert.Equal(t, "Save", save.Description)

			help := km.Bindings[1]
			assert.Equal(t, "f1", help.Keys)
			assert.Equal(t, "log('help')", help.Script)
			assert.True(t, help.StopPropagation)
			assert.True(t, help.Once)
		})
	}
}

func TestLoadDefaultsNameToFileName(t *testing.T) {
	path := writeFile(t, "work.json", `{"bindings":[{"keys":"a","action":"x"}]}`)
	km, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "work", km.Name)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown extension", func(t *testing.T) {
		_, err := Load(writeFile(t, "bindings.ini", "a=b"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	bad := map[string]string{
		"invalid.json":   `{"bindings": [`,
		"notarray.json":  `{"bindings": {"keys": "a"}}`,
		"notobject.json": `{"bindings": ["a"]}`,
		"invalid.yaml":   "bindings: [\n  - keys: a\n  bad",
		"invalid.toml":   "[[bindings]\nkeys = ",
	}
	for name, content := range bad {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, content)
			_, err := Load(path)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, path, perr.Path)
		})
	}
}

func TestLoadReader(t *testing.T) {
	km, err := LoadReader(strings.NewReader(yamlBindings), FormatYAML)
	require.NoError(t, err)
	assert.Len(t, km.Bindings, 2)

	_, err = LoadReader(strings.NewReader("{}"), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExport(t *testing.T) {
	km := NewKeymap("editor").
		AddBinding(NewBinding("control+s", "save").WithPreventDefault().WithDescription("Save")).
		AddBinding(Binding{Keys: "f1", Script: "log('help')"}.WithOnce().WithStopPropagation())

	data, err := Export(km)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))

	doc := gjson.ParseBytes(data)
	assert.Equal(t, "editor", doc.Get("name").String())
	assert.Equal(t, int64(2), doc.Get("bindings.#").Int())
	assert.Equal(t, "save", doc.Get("bindings.0.action").String())
	assert.True(t, doc.Get("bindings.0.preventDefault").Bool())
	assert.False(t, doc.Get("bindings.0.script").Exists(), "empty fields are omitted")
	assert.False(t, doc.Get("bindings.0.once").Exists())
	assert.Equal(t, "log('help')", doc.Get("bindings.1.script").String())
	assert.True(t, doc.Get("bindings.1.once").Bool())

	again, err := Decode(FormatJSON, data)
	require.NoError(t, err)
	assert.Equal(t, km.Bindings, again.Bindings)
}

func TestExportEmpty(t *testing.T) {
	data, err := Export(&Keymap{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), gjson.GetBytes(data, "bindings.#").Int())
	assert.False(t, gjson.GetBytes(data, "name").Exists())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		binding Binding
		want    error
	}{
		{"action", NewBinding("a", "x"), nil},
		{"script", Binding{Keys: "a", Script: "x = 1"}, nil},
		{"empty keys", Binding{Keys: "  ", Action: "x"}, ErrEmptyKeys},
		{"nothing to run", Binding{Keys: "a"}, ErrUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.binding.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApply(t *testing.T) {
	var saved int
	actions := Actions{
		"save": dispatch.Sync(func(*key.Event) error { saved++; return nil }),
	}

	km := NewKeymap("test").WithSource("test.json").
		AddBinding(NewBinding("control+s", "save").WithPreventDefault().WithDescription("Save")).
		AddBinding(NewBinding("meta+s", "save"))

	r := NewRegistry()
	entries, err := Apply(r, km, actions)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got := r.Entries("control+s")
	require.Len(t, got, 1)
	assert.True(t, got[0].PreventDefault)
	assert.Equal(t, "Save", got[0].Description)
	assert.Equal(t, "test.json", got[0].Source)
	assert.Equal(t, entries[0].ID, got[0].ID)

	got[0].Handler.Handle(key.NewKeyDown("s", "KeyS", key.ModCtrl))
	assert.Equal(t, 1, saved)
}

func TestApplyIsAllOrNothing(t *testing.T) {
	actions := Actions{"save": dispatch.Sync(func(*key.Event) error { return nil })}
	km := NewKeymap("test").
		Add("control+s", "save").
		Add("control+o", "open")

	r := NewRegistry()
	_, err := Apply(r, km, actions)
	require.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, err.Error(), "binding 1 (control+o)")
	assert.Equal(t, 0, r.Len())

	km = NewKeymap("test").AddBinding(Binding{Keys: "a"})
	_, err = Apply(r, km, actions)
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestDefaultKeymapIsValid(t *testing.T) {
	km := DefaultKeymap()
	require.NoError(t, km.Validate())

	known := map[string]bool{ActionQuit: true, ActionEcho: true, ActionClear: true}
	for _, b := range km.Bindings {
		assert.True(t, known[b.Action], "unknown action %q", b.Action)
	}
}

func TestKeymapClone(t *testing.T) {
	km := NewKeymap("a").Add("x", "y")
	clone := km.Clone()
	clone.Bindings[0].Action = "z"
	assert.Equal(t, "y", km.Bindings[0].Action)
}
