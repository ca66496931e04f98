package extension

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mooware/wiibridge/pkg/bus"
)

// Controller registers.
const (
	regData byte = 0x00
	regID   byte = 0xFA
)

// initSequence switches the controller into unencrypted reporting. The two
// writes must happen in this order.
var initSequence = [2][2]byte{
	{0xF0, 0x55},
	{0xFB, 0x00},
}

// Phase is the decoder's position in its startup sequence. Polling is the
// terminal steady state; read failures while polling do not leave it.
type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseIdentifying
	PhasePolling
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitializing:
		return "initializing"
	case PhaseIdentifying:
		return "identifying"
	case PhasePolling:
		return "polling"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Decoder owns the controller's startup sequence and the per-cycle report
// read over a bus session.
type Decoder struct {
	session *bus.Session
	logger  *slog.Logger
	phase   Phase
}

// NewDecoder wraps session. A nil logger disables diagnostics.
func NewDecoder(session *bus.Session, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Decoder{session: session, logger: logger}
}

// Phase returns the decoder's current phase.
func (d *Decoder) Phase() Phase {
	return d.phase
}

// Init switches the controller into unencrypted mode. Both writes are issued
// unconditionally; a failure is logged and startup continues, since the
// protocol defines no recovery path at this stage.
func (d *Decoder) Init() {
	d.phase = PhaseInitializing
	for _, seq := range initSequence {
		if err := d.session.Write(seq[:]); err != nil {
			d.logger.Warn("init write failed", "seq", fmt.Sprintf("% 02x", seq[:]), "error", err)
		}
	}
	d.phase = PhaseIdentifying
}

// Identify reads the identification block and logs it. The result does not
// gate polling: the decoder proceeds regardless of errors or unrecognized
// values.
func (d *Decoder) Identify() (ID, error) {
	defer func() { d.phase = PhasePolling }()

	raw, err := d.session.ReadFrom(regID, IDSize)
	if err != nil {
		d.logger.Warn("identification read failed", "error", err)
		return ID{}, err
	}
	var id ID
	copy(id[:], raw)
	if id.Known() {
		d.logger.Info("controller identified", "id", id)
	} else {
		d.logger.Info("unrecognized controller id", "id", id)
	}
	return id, nil
}

// Poll reads one report and decodes it. On a transport error the cycle's
// result is discarded by the caller; the decoder stays in the polling phase
// and the next call tries a fresh read.
func (d *Decoder) Poll() (State, error) {
	raw, err := d.session.ReadFrom(regData, ReportSize)
	if err != nil {
		return State{}, err
	}
	var rep Report
	copy(rep[:], raw)
	return rep.Decode(), nil
}
