// Package gamepad models the USB gamepad state emitted by the bridge: one
// d-pad direction, 11 buttons and 6 signed axes, rebuilt from scratch every
// poll cycle.
package gamepad

import (
	"fmt"

	"github.com/mooware/wiibridge/pkg/extension"
)

// Direction is the d-pad hat value. Centered doubles as the HID null state.
type Direction uint8

const (
	Centered Direction = iota
	Up
	UpRight
	Right
	DownRight
	Down
	DownLeft
	Left
	UpLeft
)

func (d Direction) String() string {
	switch d {
	case Centered:
		return "centered"
	case Up:
		return "up"
	case UpRight:
		return "up-right"
	case Right:
		return "right"
	case DownRight:
		return "down-right"
	case Down:
		return "down"
	case DownLeft:
		return "down-left"
	case Left:
		return "left"
	case UpLeft:
		return "up-left"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// dpadTable maps every combination of the four d-pad bits to a direction,
// indexed by left<<3 | up<<2 | right<<1 | down with bits meaning pressed.
// Combinations the hardware cannot produce get a defined fallback: an
// opposing vertical pair collapses to Up, a horizontal pair to Left, and
// all four pressed reads as centered.
var dpadTable = [16]Direction{
	Centered,  // 0b0000
	Down,      // 0b0001
	Right,     // 0b0010
	DownRight, // 0b0011
	Up,        // 0b0100
	Up,        // 0b0101 up+down
	UpRight,   // 0b0110
	UpRight,   // 0b0111 up+down+right
	Left,      // 0b1000
	DownLeft,  // 0b1001
	Left,      // 0b1010 left+right
	DownLeft,  // 0b1011 left+right+down
	UpLeft,    // 0b1100
	UpLeft,    // 0b1101 left+up+down
	UpLeft,    // 0b1110 left+up+right
	Centered,  // 0b1111
}

// DPadDirection resolves the four pressed-true d-pad bits to one direction.
func DPadDirection(up, down, left, right bool) Direction {
	idx := 0
	if down {
		idx |= 1 << 0
	}
	if right {
		idx |= 1 << 1
	}
	if up {
		idx |= 1 << 2
	}
	if left {
		idx |= 1 << 3
	}
	return dpadTable[idx]
}

// Button is a bit in the output button mask.
type Button uint16

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonX
	ButtonY
	ButtonPlus
	ButtonHome
	ButtonMinus
	ButtonL
	ButtonR
	ButtonZL
	ButtonZR
)

// ButtonCount is the number of buttons in the output report.
const ButtonCount = 11

// State is one output gamepad report's worth of state.
type State struct {
	DPad    Direction
	Buttons Button

	LeftX, LeftY   int16
	RightX, RightY int16

	LeftTrigger, RightTrigger int16
}

// FromExtension builds a fresh gamepad state from a decoded controller
// state. The result starts from all-released and asserts exactly the buttons
// held in this report, so nothing can carry over from an earlier cycle. Axes
// are shifted from their native field widths into the signed 16-bit range.
func FromExtension(st extension.State) State {
	out := State{
		DPad: DPadDirection(st.DPadUp, st.DPadDown, st.DPadLeft, st.DPadRight),

		LeftX:  (int16(st.LeftStickX) - 32) << 10,
		LeftY:  (int16(st.LeftStickY) - 32) << 10,
		RightX: (int16(st.RightStickX) - 16) << 11,
		RightY: (int16(st.RightStickY) - 16) << 11,

		LeftTrigger:  int16(st.LeftTrigger) << 2,
		RightTrigger: int16(st.RightTrigger) << 2,
	}

	press := func(b Button, held bool) {
		if held {
			out.Buttons |= b
		}
	}
	press(ButtonA, st.A)
	press(ButtonB, st.B)
	press(ButtonX, st.X)
	press(ButtonY, st.Y)
	press(ButtonPlus, st.Plus)
	press(ButtonHome, st.Home)
	press(ButtonMinus, st.Minus)
	press(ButtonL, st.L)
	press(ButtonR, st.R)
	press(ButtonZL, st.ZL)
	press(ButtonZR, st.ZR)

	return out
}

// Held reports whether b is pressed in this state.
func (s State) Held(b Button) bool {
	return s.Buttons&b != 0
}

// Changed returns the buttons whose state differs from prev.
func (s State) Changed(prev State) Button {
	return s.Buttons ^ prev.Buttons
}

// Pressed returns the buttons that went down since prev.
func (s State) Pressed(prev State) Button {
	return s.Changed(prev) & s.Buttons
}

// Released returns the buttons that went up since prev.
func (s State) Released(prev State) Button {
	return s.Changed(prev) & prev.Buttons
}
