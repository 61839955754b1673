// Package main is the entry point for the keychord command.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/dshills/keychord/internal/cmd"
	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/log"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	userCfg := config.FindUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := config.CandidatePaths(userCfg)

	var cli cmd.CLI
	ctx := kong.Parse(&cli,
		kong.Name(config.AppName),
		kong.Description("Keyboard shortcut dispatcher"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		// Flags and environment override configuration files.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	// The run command owns the terminal, so it only logs to a file.
	var console io.Writer = os.Stderr
	if ctx.Command() == "run" {
		console = nil
	}
	logger, closers, err := log.SetupLogger(cli.Log.Level, cli.Log.File, console)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Close(closers) }()

	ctx.Bind(&cli.Settings)
	ctx.Bind(logger)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
