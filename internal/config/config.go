// Package config defines the CLI structure for Kong parsing.
package config

import (
	"github.com/mooware/wiibridge/internal/cmd"
)

type Log struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"WIIBRIDGE_LOG_LEVEL"`
	File  string `help:"Log file path (default: none; logs only to console)" env:"WIIBRIDGE_LOG_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Run        cmd.Run        `cmd:"" default:"withargs" help:"Bridge the controller to the USB gamepad output"`
	Identify   cmd.Identify   `cmd:"" help:"Print the controller's identification block"`
	Descriptor cmd.Descriptor `cmd:"" help:"Write the gamepad HID report descriptor to stdout"`
}
