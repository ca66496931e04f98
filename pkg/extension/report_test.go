package extension_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mooware/wiibridge/pkg/extension"
)

// neutralReport has every button bit set (nothing pressed, active low) and
// zeroed analog fields.
func neutralReport() extension.Report {
	return extension.Report{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF}
}

func TestAnalogUnpacking(t *testing.T) {
	// byte0: LX=42, RX high bits 0b11
	// byte1: LY=21, RX middle bits 0b01
	// byte2: RY=11, LT high bits 0b10, RX low bit 1
	// byte3: RT=31, LT low bits 0b111
	raw := extension.Report{0xEA, 0x55, 0xCB, 0xFF, 0xFF, 0xFF}

	assert.Equal(t, uint8(42), raw.LeftStickX())
	assert.Equal(t, uint8(21), raw.LeftStickY())
	assert.Equal(t, uint8(11), raw.RightStickY())
	assert.Equal(t, uint8(31), raw.RightTrigger())

	// 0b11<<3 | 0b01<<1 | 1
	assert.Equal(t, uint8(27), raw.RightStickX())
	// 0b10<<3 | 0b111
	assert.Equal(t, uint8(23), raw.LeftTrigger())
}

func TestAnalogFieldIsolation(t *testing.T) {
	// Each analog field saturated on its own must not leak into any other.
	tests := []struct {
		name string
		raw  extension.Report
		want extension.State
	}{
		{
			name: "left stick x only",
			raw:  extension.Report{0x3F, 0x00, 0x00, 0x00, 0xFF, 0xFF},
			want: extension.State{LeftStickX: 63},
		},
		{
			name: "left stick y only",
			raw:  extension.Report{0x00, 0x3F, 0x00, 0x00, 0xFF, 0xFF},
			want: extension.State{LeftStickY: 63},
		},
		{
			name: "right stick x only",
			raw:  extension.Report{0xC0, 0xC0, 0x80, 0x00, 0xFF, 0xFF},
			want: extension.State{RightStickX: 31},
		},
		{
			name: "right stick y only",
			raw:  extension.Report{0x00, 0x00, 0x1F, 0x00, 0xFF, 0xFF},
			want: extension.State{RightStickY: 31},
		},
		{
			name: "left trigger only",
			raw:  extension.Report{0x00, 0x00, 0x60, 0xE0, 0xFF, 0xFF},
			want: extension.State{LeftTrigger: 31},
		},
		{
			name: "right trigger only",
			raw:  extension.Report{0x00, 0x00, 0x00, 0x1F, 0xFF, 0xFF},
			want: extension.State{RightTrigger: 31},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.raw.Decode())
		})
	}
}

// pressedButtons lists which of the 15 input bits decode as held.
func pressedButtons(st extension.State) []string {
	var out []string
	for _, b := range []struct {
		name string
		held bool
	}{
		{"A", st.A}, {"B", st.B}, {"X", st.X}, {"Y", st.Y},
		{"Plus", st.Plus}, {"Minus", st.Minus}, {"Home", st.Home},
		{"L", st.L}, {"R", st.R}, {"ZL", st.ZL}, {"ZR", st.ZR},
		{"Up", st.DPadUp}, {"Down", st.DPadDown},
		{"Left", st.DPadLeft}, {"Right", st.DPadRight},
	} {
		if b.held {
			out = append(out, b.name)
		}
	}
	return out
}

func TestButtonsActiveLow(t *testing.T) {
	tests := []struct {
		name      string
		byteIndex int
		mask      uint8
	}{
		{"R", 4, 1 << 1},
		{"Plus", 4, 1 << 2},
		{"Home", 4, 1 << 3},
		{"Minus", 4, 1 << 4},
		{"L", 4, 1 << 5},
		{"Down", 4, 1 << 6},
		{"Right", 4, 1 << 7},
		{"Up", 5, 1 << 0},
		{"Left", 5, 1 << 1},
		{"ZR", 5, 1 << 2},
		{"X", 5, 1 << 3},
		{"A", 5, 1 << 4},
		{"Y", 5, 1 << 5},
		{"B", 5, 1 << 6},
		{"ZL", 5, 1 << 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := neutralReport()
			raw[tt.byteIndex] &^= tt.mask // clear = pressed
			assert.Equal(t, []string{tt.name}, pressedButtons(raw.Decode()))
		})
	}

	t.Run("none pressed", func(t *testing.T) {
		assert.Empty(t, pressedButtons(neutralReport().Decode()))
	})

	t.Run("all pressed", func(t *testing.T) {
		raw := extension.Report{0x00, 0x00, 0x00, 0x00, 0x01, 0x00} // reserved bit stays set
		assert.Len(t, pressedButtons(raw.Decode()), 15)
	})
}

func TestDecodeIsPure(t *testing.T) {
	raw := extension.Report{0xEA, 0x55, 0xCB, 0xFF, 0x7D, 0xEF}
	first := raw.Decode()
	second := raw.Decode()
	assert.Equal(t, first, second)
}

func TestIdentKnownPatterns(t *testing.T) {
	assert.True(t, extension.ID{0x00, 0x00, 0xA4, 0x20, 0x01, 0x01}.Known())
	assert.True(t, extension.ID{0x01, 0x00, 0xA4, 0x20, 0x01, 0x01}.Known())
	assert.False(t, extension.ID{0x01, 0x00, 0xA4, 0x20, 0x01, 0x02}.Known())
	assert.Equal(t, "00 00 a4 20 01 01", extension.ID{0x00, 0x00, 0xA4, 0x20, 0x01, 0x01}.String())
}
