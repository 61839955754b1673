package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keychord/internal/input/keymap"
)

type testCLI struct {
	Settings `embed:""`
}

func parse(t *testing.T, args []string, opts ...kong.Option) Settings {
	t.Helper()
	var cli testCLI
	opts = append([]kong.Option{kong.Name("keychord"), kong.Exit(func(int) { t.Fatal("kong exited") })}, opts...)
	parser, err := kong.New(&cli, opts...)
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return cli.Settings
}

// isolate points the user config directory at an empty temp dir and clears
// keychord variables from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("AppData", filepath.Join(home, "AppData"))
	for _, name := range []string{"CONFIG", "LOG_LEVEL", "LOG_FILE", "BINDINGS", "WATCH", "BLOCK_ELEMENTS", "BLOCK_ATTRIBUTES"} {
		t.Setenv(EnvPrefix+name, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+name))
	}
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	return dir
}

func TestDefaultsMatchKong(t *testing.T) {
	isolate(t)
	got := parse(t, nil)
	assert.Equal(t, Defaults(), got)
}

func TestFlags(t *testing.T) {
	isolate(t)
	got := parse(t, []string{
		"--log.level=debug",
		"--bindings=keys.yaml",
		"--watch",
		"--block-elements=input,textarea",
		"--block-attributes=readonly",
	})

	assert.Equal(t, "debug", got.Log.Level)
	assert.True(t, filepath.IsAbs(got.Bindings), "paths are made absolute")
	assert.Equal(t, "keys.yaml", filepath.Base(got.Bindings))
	assert.True(t, got.Watch)
	assert.Equal(t, []string{"input", "textarea"}, got.BlockElements)
	assert.Equal(t, []string{"readonly"}, got.BlockAttributes)
}

func TestEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("KEYCHORD_LOG_LEVEL", "warn")
	t.Setenv("KEYCHORD_WATCH", "true")

	got := parse(t, nil)
	assert.Equal(t, "warn", got.Log.Level)
	assert.True(t, got.Watch)

	got = parse(t, []string{"--log.level=error"})
	assert.Equal(t, "error", got.Log.Level, "flags win over environment")
}

func TestInvalidLevelRejected(t *testing.T) {
	isolate(t)
	var cli testCLI
	parser, err := kong.New(&cli, kong.Name("keychord"))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"--log.level=loud"})
	assert.Error(t, err)
}

func TestConfigurationFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "cfg.json", `{"bindings": "/keys/a.json", "watch": true}`},
		{"yaml", "cfg.yaml", "bindings: /keys/a.json\nwatch: true\n"},
		{"toml", "cfg.toml", "bindings = \"/keys/a.json\"\nwatch = true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			jsonPaths, yamlPaths, tomlPaths := CandidatePaths(path)
			got := parse(t, nil,
				kong.Configuration(kong.JSON, jsonPaths...),
				kong.Configuration(kongyaml.Loader, yamlPaths...),
				kong.Configuration(kongtoml.Loader, tomlPaths...),
			)
			assert.Equal(t, filepath.FromSlash("/keys/a.json"), got.Bindings)
			assert.True(t, got.Watch)
		})
	}
}

func TestJSONConfigurationNesting(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log": {"level": "debug"}, "block_elements": "textarea"}`), 0o644))

	got := parse(t, nil, kong.Configuration(kong.JSON, path))
	assert.Equal(t, "debug", got.Log.Level)
	assert.Equal(t, []string{"textarea"}, got.BlockElements)
}

func TestFindUserConfig(t *testing.T) {
	isolate(t)
	assert.Equal(t, "a.yaml", FindUserConfig([]string{"run", "--config=a.yaml"}))
	assert.Equal(t, "b.toml", FindUserConfig([]string{"--config", "b.toml", "run"}))
	assert.Equal(t, "", FindUserConfig([]string{"run", "--config"}))

	t.Setenv("KEYCHORD_CONFIG", "env.json")
	assert.Equal(t, "env.json", FindUserConfig([]string{"run"}))
	assert.Equal(t, "c.json", FindUserConfig([]string{"--config=c.json"}), "flag wins over environment")
}

func TestCandidatePaths(t *testing.T) {
	dir := isolate(t)

	jsonPaths, yamlPaths, tomlPaths := CandidatePaths("mine.yml")
	require.NotEmpty(t, yamlPaths)
	assert.Equal(t, "mine.yml", yamlPaths[0])
	assert.NotContains(t, jsonPaths, "mine.yml")
	assert.Contains(t, jsonPaths, filepath.Join(dir, "config.json"))
	assert.Contains(t, tomlPaths, filepath.Join(dir, "config.toml"))

	jsonPaths, _, _ = CandidatePaths("noext")
	assert.Equal(t, "noext", jsonPaths[0])
}

func TestFindBindings(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", FindBindings(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bindings.toml"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "bindings.toml"), FindBindings(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bindings.json"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "bindings.json"), FindBindings(dir), "json is preferred")
}

func TestLoadKeymap(t *testing.T) {
	dir := isolate(t)

	t.Run("built-in", func(t *testing.T) {
		s := Defaults()
		km, err := s.LoadKeymap()
		require.NoError(t, err)
		assert.Equal(t, keymap.DefaultKeymap().Name, km.Name)
	})

	t.Run("config dir", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(dir, 0o755))
		path := filepath.Join(dir, "bindings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bindings:\n  - keys: f2\n    action: echo\n"), 0o644))
		t.Cleanup(func() { _ = os.Remove(path) })

		s := Defaults()
		assert.Equal(t, path, s.BindingsPath())
		km, err := s.LoadKeymap()
		require.NoError(t, err)
		require.Len(t, km.Bindings, 1)
		assert.Equal(t, "f2", km.Bindings[0].Keys)
	})

	t.Run("explicit file wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keys.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"bindings":[{"keys":"f3","action":"echo"}]}`), 0o644))

		s := Defaults()
		s.Bindings = path
		km, err := s.LoadKeymap()
		require.NoError(t, err)
		assert.Equal(t, path, km.Source)
	})

	t.Run("broken file", func(t *testing.T) {
		s := Defaults()
		s.Bindings = filepath.Join(t.TempDir(), "keys.ini")
		_, err := s.LoadKeymap()
		assert.ErrorIs(t, err, keymap.ErrUnknownFormat)
	})
}

func TestPipelineOptions(t *testing.T) {
	s := Defaults()
	assert.Len(t, s.PipelineOptions(), 2)
}
