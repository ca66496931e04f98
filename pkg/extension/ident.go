package extension

import "fmt"

// ID is the 6-byte identification block read from the controller once at
// startup. It is informational: an unrecognized value is logged but never
// rejected.
type ID [6]byte

// IDSize is the fixed length of the identification block in bytes.
const IDSize = 6

// knownIDs are the identification values reported by the controller family
// this package decodes.
var knownIDs = [2]ID{
	{0x00, 0x00, 0xA4, 0x20, 0x01, 0x01},
	{0x01, 0x00, 0xA4, 0x20, 0x01, 0x01},
}

// Known reports whether the block matches a supported controller type.
func (id ID) Known() bool {
	for _, k := range knownIDs {
		if id == k {
			return true
		}
	}
	return false
}

// String renders the block as space-separated hex, e.g. "00 00 a4 20 01 01".
func (id ID) String() string {
	return fmt.Sprintf("% 02x", id[:])
}
