package bridge_test

import (
	"context"
	"math/bits"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mooware/wiibridge/internal/bridge"
	"github.com/mooware/wiibridge/pkg/bus"
	"github.com/mooware/wiibridge/pkg/extension"
	"github.com/mooware/wiibridge/pkg/gamepad"
)

// scriptedController returns one scripted poll result per cycle and cancels
// the context when the script runs out.
type scriptedController struct {
	script []func() (extension.State, error)
	calls  int

	inits      int
	identifies int
	cancel     context.CancelFunc
}

func (c *scriptedController) Init() { c.inits++ }

func (c *scriptedController) Identify() (extension.ID, error) {
	c.identifies++
	return extension.ID{0x01, 0x00, 0xA4, 0x20, 0x01, 0x01}, nil
}

func (c *scriptedController) Poll() (extension.State, error) {
	if c.calls >= len(c.script) {
		c.cancel()
		return extension.State{}, bus.ErrTimeout
	}
	step := c.script[c.calls]
	c.calls++
	if c.calls == len(c.script) && c.cancel != nil {
		defer c.cancel()
	}
	return step()
}

type recordingWriter struct {
	states []gamepad.State
	err    error
}

func (w *recordingWriter) Write(st gamepad.State) error {
	w.states = append(w.states, st)
	return w.err
}

// fakeClock hands out scripted timestamps and records sleeps.
type fakeClock struct {
	times  []time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
}

type recordingIndicator struct {
	sets []bool
}

func (i *recordingIndicator) Set(on bool) {
	i.sets = append(i.sets, on)
}

func ok(st extension.State) func() (extension.State, error) {
	return func() (extension.State, error) { return st, nil }
}

func fail(err error) func() (extension.State, error) {
	return func() (extension.State, error) { return extension.State{}, err }
}

func TestStepSkipsCycleOnTransportError(t *testing.T) {
	ctrl := &scriptedController{script: []func() (extension.State, error){
		fail(bus.ErrNack),
		ok(extension.State{A: true}),
	}}
	out := &recordingWriter{}
	br := bridge.New(ctrl, out)

	br.Step()
	assert.Empty(t, out.states, "no report may be emitted for a failed cycle")

	br.Step()
	require.Len(t, out.states, 1, "next cycle reads fresh")
	assert.True(t, out.states[0].Held(gamepad.ButtonA))

	stats := br.Stats()
	assert.Equal(t, uint64(2), stats.Cycles)
	assert.Equal(t, uint64(1), stats.Skipped)
}

func TestStepReleaseAllThenAssert(t *testing.T) {
	all := extension.State{
		A: true, B: true, X: true, Y: true,
		Plus: true, Minus: true, Home: true,
		L: true, R: true, ZL: true, ZR: true,
	}
	ctrl := &scriptedController{script: []func() (extension.State, error){
		ok(extension.State{}),
		ok(all),
		ok(extension.State{}),
	}}
	out := &recordingWriter{}
	br := bridge.New(ctrl, out)

	br.Step()
	br.Step()
	br.Step()

	require.Len(t, out.states, 3)
	assert.Zero(t, out.states[0].Buttons)
	assert.Equal(t, gamepad.ButtonCount, bits.OnesCount16(uint16(out.states[1].Buttons)))
	assert.Zero(t, out.states[2].Buttons)
}

func TestRunPacing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := &scriptedController{
		script: []func() (extension.State, error){
			ok(extension.State{}),
			ok(extension.State{}),
		},
		cancel: cancel,
	}
	out := &recordingWriter{}

	t0 := time.Unix(0, 0)
	clock := &fakeClock{times: []time.Time{
		t0, t0.Add(5 * time.Millisecond), // cycle 1: 5ms, sleeps 11ms
		t0, t0.Add(20 * time.Millisecond), // cycle 2: 20ms, overrun
	}}
	ind := &recordingIndicator{}

	br := bridge.New(ctrl, out,
		bridge.WithClock(clock),
		bridge.WithIndicator(ind),
		bridge.WithInterval(16*time.Millisecond),
	)
	require.NoError(t, br.Run(ctx))

	assert.Equal(t, 1, ctrl.inits)
	assert.Equal(t, 1, ctrl.identifies)
	assert.Equal(t, 2, ctrl.calls)

	assert.Equal(t, []time.Duration{11 * time.Millisecond}, clock.sleeps)
	assert.Equal(t, []bool{false, true}, ind.sets)
	assert.Equal(t, uint64(1), br.Stats().Overruns)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := &scriptedController{cancel: func() {}}
	br := bridge.New(ctrl, &recordingWriter{})

	require.NoError(t, br.Run(ctx))
	assert.Zero(t, ctrl.calls)
	assert.Equal(t, 1, ctrl.inits, "startup handshake still runs once")
}
