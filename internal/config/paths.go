package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the configuration directory and default files.
const AppName = "keychord"

// DefaultConfigDir returns the platform-specific configuration directory for
// keychord, e.g. ~/.config/keychord.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "", ErrNoConfigDir
	}
	return filepath.Join(dir, AppName), nil
}

// FindUserConfig returns the configuration file named on the command line
// with --config, or by $KEYCHORD_CONFIG. It runs before kong so the file can
// be handed to kong's configuration loaders.
func FindUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv(EnvPrefix + "CONFIG")
}

// CandidatePaths builds candidate configuration paths per format, highest
// priority first. userPath, when set, is routed to the loader matching its
// extension and defaults to JSON.
func CandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(slice *[]string, p string) { *slice = append(*slice, p) }

	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".yaml", ".yml":
			add(&yamlPaths, userPath)
		case ".toml":
			add(&tomlPaths, userPath)
		default:
			add(&jsonPaths, userPath)
		}
	}

	addDir := func(dir string, bases ...string) {
		for _, base := range bases {
			add(&jsonPaths, filepath.Join(dir, base+".json"))
			add(&yamlPaths, filepath.Join(dir, base+".yaml"))
			add(&yamlPaths, filepath.Join(dir, base+".yml"))
			add(&tomlPaths, filepath.Join(dir, base+".toml"))
		}
	}

	if wd, err := os.Getwd(); err == nil {
		addDir(wd, AppName, "config")
	}
	if dir, err := DefaultConfigDir(); err == nil {
		addDir(dir, "config")
	}
	return jsonPaths, yamlPaths, tomlPaths
}

// FindBindings returns the first bindings.{json,yaml,yml,toml} file in dir,
// or "" when there is none.
func FindBindings(dir string) string {
	for _, ext := range []string{".json", ".yaml", ".yml", ".toml"} {
		p := filepath.Join(dir, "bindings"+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
