package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/mooware/wiibridge/internal/config"
	"github.com/mooware/wiibridge/internal/log"
)

func main() {
	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("wiibridge"),
		kong.Description("Bridge a Wii extension controller to a USB gamepad"),
		kong.UsageOnError(),
		// Flags and env vars override values loaded from config files.
		kong.Configuration(kong.JSON, "/etc/wiibridge/config.json", "~/.config/wiibridge/config.json"),
		kong.Configuration(kongyaml.Loader, "/etc/wiibridge/config.yaml", "~/.config/wiibridge/config.yaml"),
		kong.Configuration(kongtoml.Loader, "/etc/wiibridge/config.toml", "~/.config/wiibridge/config.toml"),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup logger:", err)
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	ctx.Bind(logger)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
