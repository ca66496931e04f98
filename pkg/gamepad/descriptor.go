package gamepad

import "github.com/mooware/wiibridge/pkg/usb/hid"

// Descriptor returns the HID report descriptor matching the wire report laid
// out in MarshalBinary: a hat switch with null state, 11 buttons plus
// padding, and six signed 16-bit axes.
func Descriptor() (hid.Data, error) {
	r := hid.Report{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageGamePad},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			// d-pad: one byte, 0 = null/centered, 1-8 clockwise from up
			hid.Usage{Usage: hid.UsageHatSwitch},
			hid.LogicalMinimum{Min: 1},
			hid.LogicalMaximum{Max: 8},
			hid.PhysicalMinimum{Min: 0},
			hid.PhysicalMaximum{Max: 315},
			hid.Unit{Unit: hid.UnitDegrees},
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainAbs | hid.MainNullState},
			hid.Unit{Unit: 0},

			// reserved byte after the hat
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainConst},

			// 11 buttons, then 5 bits of padding to fill the uint16
			hid.UsagePage{Page: hid.UsagePageButton},
			hid.UsageMinimum{Min: 1},
			hid.UsageMaximum{Max: ButtonCount},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 1},
			hid.ReportSize{Bits: 1},
			hid.ReportCount{Count: ButtonCount},
			hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainAbs},
			hid.ReportSize{Bits: 1},
			hid.ReportCount{Count: 16 - ButtonCount},
			hid.Input{Flags: hid.MainConst},

			// six signed 16-bit axes: sticks on X/Y/Z/Rz, triggers on Rx/Ry
			hid.UsagePage{Page: hid.UsagePageGenericDesktop},
			hid.Usage{Usage: hid.UsageX},
			hid.Usage{Usage: hid.UsageY},
			hid.Usage{Usage: hid.UsageZ},
			hid.Usage{Usage: hid.UsageRz},
			hid.Usage{Usage: hid.UsageRx},
			hid.Usage{Usage: hid.UsageRy},
			hid.LogicalMinimum{Min: -32768},
			hid.LogicalMaximum{Max: 32767},
			hid.ReportSize{Bits: 16},
			hid.ReportCount{Count: 6},
			hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainAbs},
		}},
	}}
	return r.Bytes()
}
