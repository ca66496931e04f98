// Package hid builds HID report descriptors.
//
// A report descriptor is a byte-coded DSL. This package models the handful
// of items the bridge's gamepad descriptor needs as Go structs and encodes
// them to the exact descriptor byte stream.
package hid

import "fmt"

// Data is the encoded payload of an item or a whole descriptor.
type Data []uint8

// ItemType is the HID short item "type" field.
type ItemType uint8

const (
	ItemTypeMain   ItemType = 0
	ItemTypeGlobal ItemType = 1
	ItemTypeLocal  ItemType = 2
)

// Item is one node in a report descriptor.
type Item interface {
	encode(e *encoder) error
}

// Report is a complete HID report descriptor.
type Report struct {
	Items []Item
}

// Bytes encodes the descriptor.
func (r Report) Bytes() (Data, error) {
	e := &encoder{}
	for _, it := range r.Items {
		if it == nil {
			return nil, fmt.Errorf("hid: nil item")
		}
		if err := it.encode(e); err != nil {
			return nil, err
		}
	}
	return Data(e.buf), nil
}

type encoder struct {
	buf []byte
}

func (e *encoder) short(tag uint8, typ ItemType, data Data) error {
	n := len(data)
	var sizeCode uint8
	switch n {
	case 0:
		sizeCode = 0
	case 1:
		sizeCode = 1
	case 2:
		sizeCode = 2
	case 4:
		sizeCode = 3
	default:
		return fmt.Errorf("hid: short item data must be 0/1/2/4 bytes, got %d", n)
	}
	header := (tag << 4) | (uint8(typ) << 2) | sizeCode
	e.buf = append(e.buf, header)
	e.buf = append(e.buf, data...)
	return nil
}

func dataU32(v uint32) Data {
	if v <= 0xFF {
		return Data{uint8(v)}
	}
	if v <= 0xFFFF {
		return Data{uint8(v), uint8(v >> 8)}
	}
	return Data{uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24)}
}

func dataI32(v int32) Data {
	if v >= -128 && v <= 127 {
		return Data{uint8(v)}
	}
	if v >= -32768 && v <= 32767 {
		uv := uint16(int16(v))
		return Data{uint8(uv), uint8(uv >> 8)}
	}
	uv := uint32(v)
	return Data{uint8(uv), uint8(uv >> 8), uint8(uv >> 16), uint8(uv >> 24)}
}
