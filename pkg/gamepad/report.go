package gamepad

import (
	"encoding/binary"
	"io"
)

// WireSize is the fixed length of the output report in bytes.
const WireSize = 16

// MarshalBinary encodes the state into the fixed 16-byte wire report.
//
// Bytes:
//
//	 0: d-pad direction (0 = centered, 1-8 clockwise from up)
//	 1: reserved, 0x00
//	 2-3: buttons (LE uint16, 11 bits used)
//	 4-5: left stick X (LE int16)
//	 6-7: left stick Y
//	 8-9: right stick X
//	10-11: right stick Y
//	12-13: left trigger
//	14-15: right trigger
func (s State) MarshalBinary() ([]byte, error) {
	b := make([]byte, WireSize)
	b[0] = byte(s.DPad)
	binary.LittleEndian.PutUint16(b[2:4], uint16(s.Buttons))
	binary.LittleEndian.PutUint16(b[4:6], uint16(s.LeftX))
	binary.LittleEndian.PutUint16(b[6:8], uint16(s.LeftY))
	binary.LittleEndian.PutUint16(b[8:10], uint16(s.RightX))
	binary.LittleEndian.PutUint16(b[10:12], uint16(s.RightY))
	binary.LittleEndian.PutUint16(b[12:14], uint16(s.LeftTrigger))
	binary.LittleEndian.PutUint16(b[14:16], uint16(s.RightTrigger))
	return b, nil
}

// UnmarshalBinary decodes a 16-byte wire report.
func (s *State) UnmarshalBinary(data []byte) error {
	if len(data) < WireSize {
		return io.ErrUnexpectedEOF
	}
	s.DPad = Direction(data[0])
	s.Buttons = Button(binary.LittleEndian.Uint16(data[2:4]))
	s.LeftX = int16(binary.LittleEndian.Uint16(data[4:6]))
	s.LeftY = int16(binary.LittleEndian.Uint16(data[6:8]))
	s.RightX = int16(binary.LittleEndian.Uint16(data[8:10]))
	s.RightY = int16(binary.LittleEndian.Uint16(data[10:12]))
	s.LeftTrigger = int16(binary.LittleEndian.Uint16(data[12:14]))
	s.RightTrigger = int16(binary.LittleEndian.Uint16(data[14:16]))
	return nil
}

// ReportWriter sends wire reports to an output sink, one per poll cycle.
type ReportWriter struct {
	W io.Writer
}

// Write marshals st and writes it to the sink.
func (w *ReportWriter) Write(st State) error {
	b, err := st.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.W.Write(b)
	return err
}
