// Package extension decodes Wii extension controllers of the Classic
// Controller family (Classic Controller/Pro, Hori Battle Pad, NES/SNES
// Classic Mini). All of them share one 6-byte report layout.
package extension

// Report is one raw input report as read from the data register. Analog
// fields are packed bit fields, some split across bytes; button and d-pad
// bits are active low.
type Report [6]byte

// ReportSize is the fixed length of an input report in bytes.
const ReportSize = 6

// LeftStickX returns the left stick X axis, 0-63.
func (r Report) LeftStickX() uint8 {
	return r[0] & 0x3f
}

// LeftStickY returns the left stick Y axis, 0-63.
func (r Report) LeftStickY() uint8 {
	return r[1] & 0x3f
}

// RightStickX returns the right stick X axis, 0-31. The five bits are spread
// over three bytes: two high bits in byte 0, two middle bits in byte 1, and
// the lowest bit at the top of byte 2.
func (r Report) RightStickX() uint8 {
	hi := r[0] >> 6
	mid := r[1] >> 6
	lo := r[2] >> 7
	return hi<<3 | mid<<1 | lo
}

// RightStickY returns the right stick Y axis, 0-31.
func (r Report) RightStickY() uint8 {
	return r[2] & 0x1f
}

// LeftTrigger returns the left trigger, 0-31. The two high bits live in
// byte 2, the three low bits at the top of byte 3.
func (r Report) LeftTrigger() uint8 {
	hi := r[2] >> 5 & 0x03
	lo := r[3] >> 5
	return hi<<3 | lo
}

// RightTrigger returns the right trigger, 0-31.
func (r Report) RightTrigger() uint8 {
	return r[3] & 0x1f
}

// Button identifies one discrete input bit in the report.
type Button struct {
	byteIndex uint8
	mask      uint8
}

// Button bit positions. Bit 0 of byte 4 is reserved and always reads 1.
var (
	ButtonR     = Button{4, 1 << 1}
	ButtonPlus  = Button{4, 1 << 2}
	ButtonHome  = Button{4, 1 << 3}
	ButtonMinus = Button{4, 1 << 4}
	ButtonL     = Button{4, 1 << 5}

	ButtonZR = Button{5, 1 << 2}
	ButtonX  = Button{5, 1 << 3}
	ButtonA  = Button{5, 1 << 4}
	ButtonY  = Button{5, 1 << 5}
	ButtonB  = Button{5, 1 << 6}
	ButtonZL = Button{5, 1 << 7}

	DPadDown  = Button{4, 1 << 6}
	DPadRight = Button{4, 1 << 7}
	DPadUp    = Button{5, 1 << 0}
	DPadLeft  = Button{5, 1 << 1}
)

// Pressed reports whether b is held. Bits are active low: a cleared bit
// means pressed.
func (r Report) Pressed(b Button) bool {
	return r[b.byteIndex]&b.mask == 0
}

// State is the decoded, polarity-corrected view of one report. It is rebuilt
// from scratch for every report and holds nothing across cycles.
type State struct {
	LeftStickX  uint8 // 0-63
	LeftStickY  uint8 // 0-63
	RightStickX uint8 // 0-31
	RightStickY uint8 // 0-31

	LeftTrigger  uint8 // 0-31
	RightTrigger uint8 // 0-31

	A, B, X, Y        bool
	Plus, Minus, Home bool
	L, R, ZL, ZR      bool

	DPadUp, DPadDown, DPadLeft, DPadRight bool
}

// Decode unpacks the report into a State.
func (r Report) Decode() State {
	return State{
		LeftStickX:  r.LeftStickX(),
		LeftStickY:  r.LeftStickY(),
		RightStickX: r.RightStickX(),
		RightStickY: r.RightStickY(),

		LeftTrigger:  r.LeftTrigger(),
		RightTrigger: r.RightTrigger(),

		A:     r.Pressed(ButtonA),
		B:     r.Pressed(ButtonB),
		X:     r.Pressed(ButtonX),
		Y:     r.Pressed(ButtonY),
		Plus:  r.Pressed(ButtonPlus),
		Minus: r.Pressed(ButtonMinus),
		Home:  r.Pressed(ButtonHome),
		L:     r.Pressed(ButtonL),
		R:     r.Pressed(ButtonR),
		ZL:    r.Pressed(ButtonZL),
		ZR:    r.Pressed(ButtonZR),

		DPadUp:    r.Pressed(DPadUp),
		DPadDown:  r.Pressed(DPadDown),
		DPadLeft:  r.Pressed(DPadLeft),
		DPadRight: r.Pressed(DPadRight),
	}
}
