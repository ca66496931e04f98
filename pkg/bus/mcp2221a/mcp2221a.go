// Package mcp2221a drives the Microchip MCP2221A USB-to-I2C bridge chip as a
// bus transport for the extension controller.
//
// The chip exposes its I2C engine as a USB HID device speaking fixed 64-byte
// command/response messages. Only the subset needed for the controller is
// implemented: status/set-parameters, I2C write, I2C read and read-get-data.
//
// Datasheet: http://ww1.microchip.com/downloads/en/devicedoc/20005565b.pdf
package mcp2221a

import (
	"fmt"
	"time"

	usb "github.com/karalabe/hid"

	"github.com/mooware/wiibridge/pkg/bus"
)

// Factory USB identifiers of the MCP2221A.
const (
	DefaultVID uint16 = 0x04D8
	DefaultPID uint16 = 0x00DD
)

const (
	msgSize = 64
	clkHz   = 12_000_000
)

// Command words of the HID protocol. Status and set-parameters share a word;
// the payload selects the action.
const (
	cmdStatusSetParams byte = 0x10
	cmdI2CWrite        byte = 0x90
	cmdI2CRead         byte = 0x91
	cmdI2CReadGetData  byte = 0x40
)

// I2C engine states reported in status and get-data responses.
const (
	stateIdle         byte = 0x00
	stateStartTimeout byte = 0x12
	stateAddrTimeout  byte = 0x23
	stateAddrNack     byte = 0x25
	statePartialData  byte = 0x41
	stateWriteTimeout byte = 0x44
	stateStopTimeout  byte = 0x62
	stateReadTimeout  byte = 0x52
	stateReadPartial  byte = 0x54
	stateReadComplete byte = 0x55
	stateReadError    byte = 0x7F
)

const (
	retryMax   = 50
	retryPause = 300 * time.Microsecond
)

func stateTimedOut(st byte) bool {
	switch st {
	case stateStartTimeout, stateAddrTimeout, stateWriteTimeout,
		stateReadTimeout, stateStopTimeout:
		return true
	}
	return false
}

// Conn implements bus.Conn on an MCP2221A.
//
// Requested bytes are drained from the chip's read engine into a local
// buffer; Available reports how much of the pending transfer has arrived
// without blocking on the remainder.
type Conn struct {
	dev     *usb.Device
	rbuf    []byte
	pending int
	readErr error
}

// Open connects to the first attached MCP2221A and configures its I2C engine
// for the given bus speed in Hz.
func Open(vid, pid uint16, speed uint32) (*Conn, error) {
	infos := usb.Enumerate(vid, pid)
	if len(infos) == 0 {
		return nil, fmt.Errorf("mcp2221a: no device %04x:%04x attached", vid, pid)
	}
	dev, err := infos[0].Open()
	if err != nil {
		return nil, fmt.Errorf("mcp2221a: open: %w", err)
	}
	c := &Conn{dev: dev}
	if err := c.setSpeed(speed); err != nil {
		dev.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the USB device.
func (c *Conn) Close() error {
	return c.dev.Close()
}

func newMsg() []byte {
	return make([]byte, msgSize)
}

// send issues one command message and returns the 64-byte response.
func (c *Conn) send(cmd byte, msg []byte) ([]byte, error) {
	msg[0] = cmd
	if _, err := c.dev.Write(msg); err != nil {
		return nil, fmt.Errorf("mcp2221a: write command 0x%02x: %w", cmd, err)
	}
	rsp := newMsg()
	n, err := c.dev.Read(rsp)
	if err != nil {
		return nil, fmt.Errorf("mcp2221a: read response 0x%02x: %w", cmd, err)
	}
	if n < msgSize {
		return rsp, fmt.Errorf("mcp2221a: short response (%d of %d bytes)", n, msgSize)
	}
	if rsp[0] != cmd {
		return rsp, fmt.Errorf("mcp2221a: response for 0x%02x, expected 0x%02x", rsp[0], cmd)
	}
	return rsp, nil
}

// engineState reads the I2C state machine value from a status response.
func (c *Conn) engineState() (byte, error) {
	rsp, err := c.send(cmdStatusSetParams, newMsg())
	if err != nil {
		return 0, err
	}
	return rsp[8], nil
}

// setSpeed programs the I2C clock divider. The divider formula matches the
// vendor tooling; it is not documented in the datasheet.
func (c *Conn) setSpeed(speed uint32) error {
	if speed > clkHz/3 || speed < clkHz/258 {
		return fmt.Errorf("mcp2221a: bus speed %d out of range", speed)
	}
	msg := newMsg()
	msg[3] = 0x20
	msg[4] = byte(clkHz/speed - 3)
	rsp, err := c.send(cmdStatusSetParams, msg)
	if err != nil {
		return fmt.Errorf("mcp2221a: set bus speed: %w", err)
	}
	if rsp[3] == 0x21 {
		return fmt.Errorf("mcp2221a: set bus speed: transfer in progress")
	}
	return nil
}

// cancel aborts a stuck transfer so the engine returns to idle.
func (c *Conn) cancel() error {
	msg := newMsg()
	msg[2] = 0x10
	rsp, err := c.send(cmdStatusSetParams, msg)
	if err != nil {
		return fmt.Errorf("mcp2221a: cancel transfer: %w", err)
	}
	if rsp[2] == 0x10 {
		time.Sleep(retryPause)
	}
	return nil
}

// Write sends p to the peripheral at addr as one I2C transaction.
// The controller's commands are at most a couple of bytes, so the engine's
// 60-byte per-message limit is never reached.
func (c *Conn) Write(addr byte, p []byte) error {
	st, err := c.engineState()
	if err != nil {
		return err
	}
	if st != stateIdle {
		if err := c.cancel(); err != nil {
			return err
		}
	}

	msg := newMsg()
	msg[1] = byte(len(p))
	msg[2] = byte(len(p) >> 8)
	msg[3] = addr << 1
	copy(msg[4:], p)
	if _, err := c.send(cmdI2CWrite, msg); err != nil {
		return err
	}

	for retry := 0; retry < retryMax; retry++ {
		st, err := c.engineState()
		if err != nil {
			return err
		}
		switch {
		case st == stateIdle:
			return nil
		case st == stateAddrNack:
			return fmt.Errorf("mcp2221a: write to 0x%02x: %w", addr, bus.ErrNack)
		case stateTimedOut(st):
			return fmt.Errorf("mcp2221a: write to 0x%02x: %w", addr, bus.ErrTimeout)
		}
		time.Sleep(retryPause)
	}
	return fmt.Errorf("mcp2221a: write to 0x%02x: %w", addr, bus.ErrTimeout)
}

// Request starts an I2C read of n bytes from addr. The data is collected
// incrementally by Available and handed out by Read.
func (c *Conn) Request(addr byte, n int) error {
	msg := newMsg()
	msg[1] = byte(n)
	msg[2] = byte(n >> 8)
	msg[3] = addr<<1 | 1
	if _, err := c.send(cmdI2CRead, msg); err != nil {
		return err
	}
	c.rbuf = c.rbuf[:0]
	c.pending = n
	c.readErr = nil
	return nil
}

// Available drains whatever the read engine has completed so far into the
// local buffer and reports the byte count. It never blocks waiting for the
// rest of the transfer; callers poll.
func (c *Conn) Available() int {
	for c.pending > 0 && c.readErr == nil {
		rsp, err := c.send(cmdI2CReadGetData, newMsg())
		if err != nil {
			c.readErr = err
			break
		}
		if rsp[2] == stateAddrNack {
			c.readErr = fmt.Errorf("mcp2221a: read: %w", bus.ErrNack)
			break
		}
		if rsp[1] == statePartialData || rsp[3] == stateReadError {
			// engine still clocking bytes in
			break
		}
		if rsp[2] != stateReadPartial && rsp[2] != stateReadComplete && rsp[2] != stateIdle {
			break
		}
		n := int(rsp[3])
		if n > c.pending {
			n = c.pending
		}
		if n == 0 {
			break
		}
		c.rbuf = append(c.rbuf, rsp[4:4+n]...)
		c.pending -= n
		if rsp[2] == stateReadPartial {
			break
		}
	}
	return len(c.rbuf)
}

// Read copies buffered bytes into p.
func (c *Conn) Read(p []byte) (int, error) {
	if c.readErr != nil {
		return 0, c.readErr
	}
	n := copy(p, c.rbuf)
	c.rbuf = c.rbuf[n:]
	return n, nil
}
