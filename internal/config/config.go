package config

import (
	"fmt"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/block"
	"github.com/dshills/keychord/internal/input/keymap"
)

// EnvPrefix prefixes every environment variable keychord reads.
const EnvPrefix = "KEYCHORD_"

// LogConfig configures logging.
type LogConfig struct {
	Level string `help:"Log level." enum:"trace,debug,info,warn,error" default:"info" env:"KEYCHORD_LOG_LEVEL"`
	File  string `help:"Write logs to this file." type:"path" env:"KEYCHORD_LOG_FILE" placeholder:"FILE"`
}

// Settings are the options shared by every command.
type Settings struct {
	Config string    `help:"Configuration file." type:"path" env:"KEYCHORD_CONFIG" placeholder:"FILE"`
	Log    LogConfig `embed:"" prefix:"log."`

	Bindings        string   `help:"Bindings file (.json, .yaml, .yml or .toml). Defaults to bindings.* in the config directory, then the built-in keymap." type:"path" env:"KEYCHORD_BINDINGS" placeholder:"FILE"`
	Watch           bool     `help:"Reload the bindings file when it changes." env:"KEYCHORD_WATCH"`
	BlockElements   []string `help:"Element tag names whose key-downs are not dispatched." env:"KEYCHORD_BLOCK_ELEMENTS" default:"input,textarea,select,option"`
	BlockAttributes []string `help:"Attributes that block dispatch for an element and its descendants." env:"KEYCHORD_BLOCK_ATTRIBUTES" default:"contenteditable,block-keypress"`
}

// Defaults returns the settings kong produces with no flags, environment or
// configuration file.
func Defaults() Settings {
	return Settings{
		Log:             LogConfig{Level: "info"},
		BlockElements:   append([]string(nil), block.DefaultElements...),
		BlockAttributes: append([]string(nil), block.DefaultAttributes...),
	}
}

// BindingsPath returns the bindings file to load: the configured one, else
// the first bindings.* file in the user configuration directory. An empty
// path means the built-in keymap.
func (s *Settings) BindingsPath() string {
	if s.Bindings != "" {
		return s.Bindings
	}
	if dir, err := DefaultConfigDir(); err == nil {
		return FindBindings(dir)
	}
	return ""
}

// LoadKeymap loads the bindings file, or returns the built-in keymap when
// there is none.
func (s *Settings) LoadKeymap() (*keymap.Keymap, error) {
	path := s.BindingsPath()
	if path == "" {
		return keymap.DefaultKeymap(), nil
	}
	km, err := keymap.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading bindings: %w", err)
	}
	return km, nil
}

// PipelineOptions returns the pipeline options the settings imply.
func (s *Settings) PipelineOptions() []input.Option {
	return []input.Option{
		input.WithBlockElements(s.BlockElements...),
		input.WithBlockAttributes(s.BlockAttributes...),
	}
}
