package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mooware/wiibridge/pkg/bus"
	"github.com/mooware/wiibridge/pkg/bus/mcp2221a"
	"github.com/mooware/wiibridge/pkg/extension"
	"github.com/mooware/wiibridge/pkg/gamepad"
)

// Identify performs the startup handshake once and prints the controller's
// identification block.
type Identify struct {
	ReadTimeout time.Duration `help:"Bus read timeout" default:"1s" env:"WIIBRIDGE_READ_TIMEOUT"`
}

// Run is called by Kong when the identify command is executed.
func (c *Identify) Run(logger *slog.Logger) error {
	conn, err := mcp2221a.Open(mcp2221a.DefaultVID, mcp2221a.DefaultPID, bus.ClockHz)
	if err != nil {
		return err
	}
	defer conn.Close()

	session := bus.NewSession(conn, bus.WithReadDeadline(c.ReadTimeout))
	dec := extension.NewDecoder(session, logger)
	dec.Init()
	id, err := dec.Identify()
	if err != nil {
		return err
	}
	if id.Known() {
		fmt.Printf("%s (supported)\n", id)
	} else {
		fmt.Printf("%s (unrecognized)\n", id)
	}
	return nil
}

// Descriptor writes the HID report descriptor for the output report to
// stdout, raw bytes ready for a gadget function's report_desc.
type Descriptor struct{}

// Run is called by Kong when the descriptor command is executed.
func (c *Descriptor) Run() error {
	d, err := gamepad.Descriptor()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(d)
	return err
}
