// Package bus implements the addressed request/response session used to talk
// to a Wii extension controller over its two-wire serial bus.
//
// The controller sits at a single fixed peripheral address and is driven with
// two primitives: an atomic addressed write, and a register read performed as
// write-pointer-then-read. The session itself holds no state beyond the open
// transport.
package bus

import (
	"errors"
	"fmt"
	"time"
)

const (
	// PeripheralAddr is the fixed 7-bit address of the extension controller.
	PeripheralAddr byte = 0x52

	// ClockHz is the bus clock rate expected by the controller.
	ClockHz = 400_000

	// settleDelay is the pause between writing a register pointer and
	// requesting data back. The controller needs it to prepare the report.
	settleDelay = time.Millisecond

	// availPollInterval paces the wait for requested bytes to arrive.
	availPollInterval = 100 * time.Microsecond
)

// Transport failure classes. Backends wrap their native errors in one of
// these so callers can match with errors.Is.
var (
	ErrNack        = errors.New("bus: peripheral nack")
	ErrArbitration = errors.New("bus: arbitration lost")
	ErrTimeout     = errors.New("bus: transfer timeout")
)

// Conn is the low-level two-wire transport a Session runs on.
//
// Write sends p to the peripheral at addr as one transaction. Request begins
// a read of n bytes from addr; the bytes become visible through Available and
// are drained with Read. All methods block for the duration of the bus
// transaction.
type Conn interface {
	Write(addr byte, p []byte) error
	Request(addr byte, n int) error
	Available() int
	Read(p []byte) (int, error)
}

// Session binds a Conn to the extension controller's fixed address.
type Session struct {
	conn     Conn
	addr     byte
	deadline time.Duration
	sleep    func(time.Duration)
}

// Option configures a Session.
type Option func(*Session)

// WithReadDeadline bounds the wait for requested bytes in ReadFrom. The
// reference protocol waits forever; leaving the deadline unset preserves
// that behavior.
func WithReadDeadline(d time.Duration) Option {
	return func(s *Session) { s.deadline = d }
}

// WithSleep replaces the sleep function used for the settle delay and the
// availability poll. Tests use this to run without a real clock.
func WithSleep(fn func(time.Duration)) Option {
	return func(s *Session) { s.sleep = fn }
}

// NewSession wraps conn in a session addressing the extension controller.
func NewSession(conn Conn, opts ...Option) *Session {
	s := &Session{
		conn:  conn,
		addr:  PeripheralAddr,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write sends p to the controller as one atomic transaction.
func (s *Session) Write(p []byte) error {
	if err := s.conn.Write(s.addr, p); err != nil {
		return fmt.Errorf("bus: write % 02x: %w", p, err)
	}
	return nil
}

// ReadFrom points the controller at register reg, waits for it to settle,
// then reads exactly n bytes. If the pointer write fails the read is not
// attempted. Without a read deadline the wait for data is unbounded; an
// unresponsive controller blocks the caller.
func (s *Session) ReadFrom(reg byte, n int) ([]byte, error) {
	if err := s.Write([]byte{reg}); err != nil {
		return nil, err
	}
	s.sleep(settleDelay)

	if err := s.conn.Request(s.addr, n); err != nil {
		return nil, fmt.Errorf("bus: request %d bytes from 0x%02x: %w", n, reg, err)
	}

	var waited time.Duration
	for s.conn.Available() < n {
		if s.deadline > 0 && waited >= s.deadline {
			return nil, fmt.Errorf("bus: read %d bytes from 0x%02x: %w", n, reg, ErrTimeout)
		}
		s.sleep(availPollInterval)
		waited += availPollInterval
	}

	buf := make([]byte, n)
	if _, err := s.conn.Read(buf); err != nil {
		return nil, fmt.Errorf("bus: read %d bytes from 0x%02x: %w", n, reg, err)
	}
	return buf, nil
}
