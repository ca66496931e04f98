// Package bridge runs the fixed-cadence poll loop that moves controller
// state from the bus to the gamepad output.
package bridge

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mooware/wiibridge/pkg/extension"
	"github.com/mooware/wiibridge/pkg/gamepad"
)

// DefaultInterval is the poll cadence, about 60 Hz.
const DefaultInterval = 16 * time.Millisecond

// Controller is the decoder surface the loop drives. *extension.Decoder
// satisfies it.
type Controller interface {
	Init()
	Identify() (extension.ID, error)
	Poll() (extension.State, error)
}

// Writer consumes one gamepad state per successful cycle.
type Writer interface {
	Write(gamepad.State) error
}

// Clock abstracts wall time and sleeping so pacing can be tested without a
// real clock.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Indicator is raised while cycles overrun the poll interval, typically
// driving a status LED.
type Indicator interface {
	Set(on bool)
}

type nopIndicator struct{}

func (nopIndicator) Set(bool) {}

// Stats counts what the loop has done. It is threaded through the Bridge
// explicitly rather than kept in a global.
type Stats struct {
	Cycles   uint64 // poll cycles attempted
	Skipped  uint64 // cycles skipped due to a transport error
	Overruns uint64 // cycles that took longer than the interval
}

// Bridge ties a controller decoder to an output writer and paces the cycle.
type Bridge struct {
	ctrl      Controller
	out       Writer
	clock     Clock
	indicator Indicator
	logger    *slog.Logger
	interval  time.Duration
	stats     Stats
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithInterval overrides the poll interval.
func WithInterval(d time.Duration) Option {
	return func(b *Bridge) { b.interval = d }
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(b *Bridge) { b.clock = c }
}

// WithIndicator installs an overrun indicator.
func WithIndicator(ind Indicator) Option {
	return func(b *Bridge) { b.indicator = ind }
}

// WithLogger installs a diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// New builds a bridge around ctrl and out.
func New(ctrl Controller, out Writer, opts ...Option) *Bridge {
	b := &Bridge{
		ctrl:      ctrl,
		out:       out,
		clock:     systemClock{},
		indicator: nopIndicator{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		interval:  DefaultInterval,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Step runs one poll cycle: read, decode, map, write. A transport error
// skips the cycle entirely; no report is written and nothing is retried
// until the next scheduled cycle.
func (b *Bridge) Step() {
	b.stats.Cycles++
	st, err := b.ctrl.Poll()
	if err != nil {
		b.stats.Skipped++
		b.logger.Debug("poll failed, skipping cycle", "error", err)
		return
	}
	if err := b.out.Write(gamepad.FromExtension(st)); err != nil {
		b.logger.Warn("report write failed", "error", err)
	}
}

// Run initializes the controller once and then steps at the poll interval
// until ctx is canceled. A cycle that finishes early sleeps off the
// remainder; one that overruns raises the indicator and starts the next
// cycle immediately, with no catch-up for accumulated drift.
func (b *Bridge) Run(ctx context.Context) error {
	b.ctrl.Init()
	_, _ = b.ctrl.Identify() // informational, logged by the decoder

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := b.clock.Now()
		b.Step()
		elapsed := b.clock.Now().Sub(start)

		if elapsed < b.interval {
			b.indicator.Set(false)
			b.clock.Sleep(b.interval - elapsed)
		} else {
			b.stats.Overruns++
			b.indicator.Set(true)
		}
	}
}

// Stats returns a copy of the loop counters.
func (b *Bridge) Stats() Stats {
	return b.stats
}
