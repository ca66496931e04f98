package bus_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mooware/wiibridge/pkg/bus"
)

// slowConn delivers requested data only after a number of Available polls,
// simulating a peripheral that is still clocking bytes out.
type slowConn struct {
	data       []byte
	pollsLeft  int
	writes     [][]byte
	requests   int
	writeErr   error
	requestErr error
	ready      bool
}

func (c *slowConn) Write(addr byte, p []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writes = append(c.writes, append([]byte(nil), p...))
	return nil
}

func (c *slowConn) Request(addr byte, n int) error {
	c.requests++
	if c.requestErr != nil {
		return c.requestErr
	}
	c.ready = true
	return nil
}

func (c *slowConn) Available() int {
	if !c.ready {
		return 0
	}
	if c.pollsLeft > 0 {
		c.pollsLeft--
		return 0
	}
	return len(c.data)
}

func (c *slowConn) Read(p []byte) (int, error) {
	return copy(p, c.data), nil
}

func TestReadFromWaitsForData(t *testing.T) {
	conn := &slowConn{data: []byte{1, 2, 3, 4, 5, 6}, pollsLeft: 3}

	var sleeps []time.Duration
	s := bus.NewSession(conn, bus.WithSleep(func(d time.Duration) {
		sleeps = append(sleeps, d)
	}))

	got, err := s.ReadFrom(0x00, 6)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got)

	// settle delay first, then one poll pause per empty Available
	require.Len(t, sleeps, 4)
	assert.Equal(t, time.Millisecond, sleeps[0])
}

func TestReadFromSkipsReadOnPointerWriteFailure(t *testing.T) {
	conn := &slowConn{writeErr: bus.ErrNack}
	s := bus.NewSession(conn, bus.WithSleep(func(time.Duration) {}))

	_, err := s.ReadFrom(0x00, 6)
	assert.ErrorIs(t, err, bus.ErrNack)
	assert.Zero(t, conn.requests)
}

func TestReadFromDeadline(t *testing.T) {
	conn := &slowConn{data: nil} // never becomes available
	s := bus.NewSession(conn,
		bus.WithSleep(func(time.Duration) {}),
		bus.WithReadDeadline(time.Millisecond),
	)

	_, err := s.ReadFrom(0x00, 6)
	assert.ErrorIs(t, err, bus.ErrTimeout)
}

func TestWriteWrapsTransportError(t *testing.T) {
	conn := &slowConn{writeErr: bus.ErrArbitration}
	s := bus.NewSession(conn)

	err := s.Write([]byte{0xF0, 0x55})
	assert.ErrorIs(t, err, bus.ErrArbitration)
	assert.False(t, errors.Is(err, bus.ErrNack))
}

func TestWritePassesBytesThrough(t *testing.T) {
	conn := &slowConn{}
	s := bus.NewSession(conn)

	require.NoError(t, s.Write([]byte{0xFB, 0x00}))
	assert.Equal(t, [][]byte{{0xFB, 0x00}}, conn.writes)
}
