// Package config holds the keychord settings shared by every command and
// the lookup of configuration and bindings files.
//
// Settings are parsed by kong from flags, KEYCHORD_* environment variables
// and configuration files, in that order of precedence. Configuration files
// are searched in priority order:
//
//  1. the file named by --config or $KEYCHORD_CONFIG
//  2. keychord.{json,yaml,yml,toml} and config.* in the working directory
//  3. config.* in the user configuration directory (DefaultConfigDir)
//
// A configuration file uses the flag names as keys, with dots as nesting and
// dashes written as underscores:
//
//	log:
//	  level: debug
//	bindings: ~/.config/keychord/bindings.yaml
//	watch: true
//	block_elements: [input, textarea]
package config
