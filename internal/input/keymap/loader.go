package keymap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Format identifies a bindings file encoding.
type Format string

// Supported bindings file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Load reads and decodes a bindings file. The keymap's Source is set to path
// and its Name defaults to the file name without extension.
func Load(path string) (*Keymap, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bindings file: %w", err)
	}

	km, err := Decode(format, data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	km.Source = path
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return km, nil
}

// LoadReader decodes a bindings document of the given format.
func LoadReader(r io.Reader, format Format) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bindings: %w", err)
	}
	km, err := Decode(format, data)
	if err != nil {
		return nil, &ParseError{Path: "<reader>", Err: err}
	}
	return km, nil
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) (*Keymap, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		km := &Keymap{}
		if err := yaml.Unmarshal(data, km); err != nil {
			return nil, err
		}
		return km, nil
	case FormatTOML:
		km := &Keymap{}
		if err := toml.Unmarshal(data, km); err != nil {
			return nil, err
		}
		return km, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func decodeJSON(data []byte) (*Keymap, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	doc := gjson.ParseBytes(data)
	bindings := doc.Get("bindings")
	if bindings.Exists() && !bindings.IsArray() {
		return nil, fmt.Errorf("bindings: expected an array")
	}

	km := &Keymap{
		Name:     doc.Get("name").String(),
		Bindings: make([]Binding, 0),
	}

	var err error
	bindings.ForEach(func(idx, value gjson.Result) bool {
		if !value.IsObject() {
			err = fmt.Errorf("bindings.%d: expected an object", idx.Int())
			return false
		}
		km.Bindings = append(km.Bindings, Binding{
			Keys:            value.Get("keys").String(),
			Action:          value.Get("action").String(),
			Script:          value.Get("script").String(),
			PreventDefault:  value.Get("preventDefault").Bool(),
			StopPropagation: value.Get("stopPropagation").Bool(),
			Once:            value.Get("once").Bool(),
			Description:     value.Get("description").String(),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return km, nil
}

// Export encodes km as indented JSON. Zero-valued optional fields are omitted.
func Export(km *Keymap) ([]byte, error) {
	doc := `{"bindings":[]}`
	var err error
	if km.Name != "" {
		if doc, err = sjson.Set(doc, "name", km.Name); err != nil {
			return nil, fmt.Errorf("exporting name: %w", err)
		}
	}

	for i, b := range km.Bindings {
		obj, err := exportBinding(b)
		if err != nil {
			return nil, fmt.Errorf("exporting binding %d: %w", i, err)
		}
		if doc, err = sjson.SetRaw(doc, "bindings.-1", obj); err != nil {
			return nil, fmt.Errorf("exporting binding %d: %w", i, err)
		}
	}

	return pretty.Pretty([]byte(doc)), nil
}

func exportBinding(b Binding) (string, error) {
	fields := []struct {
		path  string
		value any
		set   bool
	}{
		{"keys", b.Keys, true},
		{"action", b.Action, b.Action != ""},
		{"script", b.Script, b.Script != ""},
		{"preventDefault", true, b.PreventDefault},
		{"stopPropagation", true, b.StopPropagation},
		{"once", true, b.Once},
		{"description", b.Description, b.Description != ""},
	}

	obj := "{}"
	for _, f := range fields {
		if !f.set {
			continue
		}
		var err error
		if obj, err = sjson.Set(obj, f.path, f.value); err != nil {
			return "", err
		}
	}
	return obj, nil
}
