package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mooware/wiibridge/internal/bridge"
	"github.com/mooware/wiibridge/pkg/bus"
	"github.com/mooware/wiibridge/pkg/bus/mcp2221a"
	"github.com/mooware/wiibridge/pkg/extension"
	"github.com/mooware/wiibridge/pkg/gamepad"
)

// Run is the bridge's main command: poll the controller and emit one gamepad
// report per cycle until interrupted.
type Run struct {
	Interval    time.Duration `help:"Poll interval" default:"16ms" env:"WIIBRIDGE_INTERVAL"`
	ReadTimeout time.Duration `help:"Bus read timeout; 0 waits forever like the reference hardware" default:"0" env:"WIIBRIDGE_READ_TIMEOUT"`
	Output      string        `help:"Gadget HID device to write reports to" default:"/dev/hidg0" env:"WIIBRIDGE_OUTPUT"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := mcp2221a.Open(mcp2221a.DefaultVID, mcp2221a.DefaultPID, bus.ClockHz)
	if err != nil {
		return err
	}
	defer conn.Close()

	var opts []bus.Option
	if r.ReadTimeout > 0 {
		opts = append(opts, bus.WithReadDeadline(r.ReadTimeout))
	}
	session := bus.NewSession(conn, opts...)
	dec := extension.NewDecoder(session, logger)

	out, err := os.OpenFile(r.Output, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	logger.Info("starting bridge", "interval", r.Interval, "output", r.Output)
	br := bridge.New(dec, &gamepad.ReportWriter{W: out},
		bridge.WithInterval(r.Interval),
		bridge.WithLogger(logger),
		bridge.WithIndicator(&overrunIndicator{logger: logger}),
	)
	err = br.Run(ctx)

	stats := br.Stats()
	logger.Info("bridge stopped",
		"cycles", stats.Cycles, "skipped", stats.Skipped, "overruns", stats.Overruns)
	return err
}

// overrunIndicator logs the rising edge of the overrun signal.
type overrunIndicator struct {
	logger *slog.Logger
	on     bool
}

func (o *overrunIndicator) Set(on bool) {
	if on && !o.on {
		o.logger.Warn("poll cycle overran the interval")
	}
	o.on = on
}
