// Package dualshock4 models the DualShock 4 extended input report that
// translated Switch controller input is written into.
package dualshock4

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// Report is the DS4 extended input report.
//
// Wire format (MarshalBinary): fixed 63 bytes, little-endian.
//
//	 0-3:   LX, LY, RX, RY
//	 4-5:   buttons (low nibble DPad)
//	 6:     special (PS, touchpad)
//	 7-8:   left/right trigger
//	 9-10:  timestamp
//	11:     battery
//	12-17:  gyro X/Y/Z
//	18-23:  accel X/Y/Z
//	24-28:  reserved
//	29:     battery special
//	30-31:  reserved
//	32:     touch packet count
//	33-41:  current touch
//	42-59:  previous touches
//	60-62:  reserved
type Report struct {
	ThumbLX, ThumbLY uint8
	ThumbRX, ThumbRY uint8

	Buttons uint16
	Special uint8

	TriggerL, TriggerR uint8

	Timestamp  uint16
	BatteryLvl uint8

	GyroX, GyroY, GyroZ    int16
	AccelX, AccelY, AccelZ int16

	BatteryLvlSpecial uint8

	TouchPacketsN uint8
	CurrentTouch  Touch
	PreviousTouch [2]Touch
}

// NewReport returns a report in its neutral state: sticks centered, DPad released.
func NewReport() Report {
	r := Report{
		ThumbLX: StickCenter,
		ThumbLY: StickCenter,
		ThumbRX: StickCenter,
		ThumbRY: StickCenter,
	}
	r.SetDPad(DPadNone)
	return r
}

func (r Report) DPad() DPad {
	return DPad(r.Buttons & dpadMask)
}

func (r *Report) SetDPad(d DPad) {
	r.Buttons = r.Buttons&^dpadMask | uint16(d)&dpadMask
}

// Pressed reports whether all bits of b are set.
func (r Report) Pressed(b uint16) bool {
	return r.Buttons&b == b
}

// MarshalBinary encodes the report to the 63-byte extended layout.
func (r Report) MarshalBinary() ([]byte, error) {
	b := make([]byte, ReportSize)
	b[0] = r.ThumbLX
	b[1] = r.ThumbLY
	b[2] = r.ThumbRX
	b[3] = r.ThumbRY
	binary.LittleEndian.PutUint16(b[4:6], r.Buttons)
	b[6] = r.Special
	b[7] = r.TriggerL
	b[8] = r.TriggerR
	binary.LittleEndian.PutUint16(b[9:11], r.Timestamp)
	b[11] = r.BatteryLvl

	o := 12
	putI16 := func(v int16) {
		binary.LittleEndian.PutUint16(b[o:o+2], uint16(v))
		o += 2
	}
	putI16(r.GyroX)
	putI16(r.GyroY)
	putI16(r.GyroZ)
	putI16(r.AccelX)
	putI16(r.AccelY)
	putI16(r.AccelZ)

	b[29] = r.BatteryLvlSpecial
	b[32] = r.TouchPacketsN
	putTouch(b[33:42], r.CurrentTouch)
	putTouch(b[42:51], r.PreviousTouch[0])
	putTouch(b[51:60], r.PreviousTouch[1])
	return b, nil
}

// UnmarshalBinary decodes the 63-byte extended layout.
func (r *Report) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}
	r.ThumbLX = data[0]
	r.ThumbLY = data[1]
	r.ThumbRX = data[2]
	r.ThumbRY = data[3]
	r.Buttons = binary.LittleEndian.Uint16(data[4:6])
	r.Special = data[6]
	r.TriggerL = data[7]
	r.TriggerR = data[8]
	r.Timestamp = binary.LittleEndian.Uint16(data[9:11])
	r.BatteryLvl = data[11]
	i16 := func(o int) int16 { return int16(binary.LittleEndian.Uint16(data[o : o+2])) }
	r.GyroX, r.GyroY, r.GyroZ = i16(12), i16(14), i16(16)
	r.AccelX, r.AccelY, r.AccelZ = i16(18), i16(20), i16(22)
	r.BatteryLvlSpecial = data[29]
	r.TouchPacketsN = data[32]
	r.CurrentTouch = readTouch(data[33:42])
	r.PreviousTouch[0] = readTouch(data[42:51])
	r.PreviousTouch[1] = readTouch(data[51:60])
	return nil
}

func putTouch(b []byte, t Touch) {
	b[0] = t.PacketCounter
	b[1] = t.IsUpTrackingNum1
	copy(b[2:5], t.TouchData1[:])
	b[5] = t.IsUpTrackingNum2
	copy(b[6:9], t.TouchData2[:])
}

func readTouch(b []byte) Touch {
	var t Touch
	t.PacketCounter = b[0]
	t.IsUpTrackingNum1 = b[1]
	copy(t.TouchData1[:], b[2:5])
	t.IsUpTrackingNum2 = b[5]
	copy(t.TouchData2[:], b[6:9])
	return t
}

var buttonNames = []struct {
	bit  uint16
	name string
}{
	{ButtonSquare, "Square"},
	{ButtonCross, "Cross"},
	{ButtonCircle, "Circle"},
	{ButtonTriangle, "Triangle"},
	{ButtonShoulderLeft, "L1"},
	{ButtonShoulderRight, "R1"},
	{ButtonTriggerLeft, "L2"},
	{ButtonTriggerRight, "R2"},
	{ButtonShare, "Share"},
	{ButtonOptions, "Options"},
	{ButtonThumbLeft, "L3"},
	{ButtonThumbRight, "R3"},
}

// PressedNames lists the held face, shoulder and special buttons in
// report bit order. The DPad is not included.
func (r Report) PressedNames() []string {
	var pressed []string
	for _, bn := range buttonNames {
		if r.Pressed(bn.bit) {
			pressed = append(pressed, bn.name)
		}
	}
	if r.Special&SpecialPS != 0 {
		pressed = append(pressed, "PS")
	}
	if r.Special&SpecialTouchpad != 0 {
		pressed = append(pressed, "Touchpad")
	}
	return pressed
}

// String renders a single status line for console output.
func (r Report) String() string {
	pressed := r.PressedNames()
	btns := "none"
	if len(pressed) > 0 {
		btns = strings.Join(pressed, "+")
	}

	s := fmt.Sprintf("buttons=%s dpad=%s L=(%d,%d) R=(%d,%d) L2=%d R2=%d gyro=(%d,%d,%d) accel=(%d,%d,%d)",
		btns, r.DPad(),
		r.ThumbLX, r.ThumbLY, r.ThumbRX, r.ThumbRY,
		r.TriggerL, r.TriggerR,
		r.GyroX, r.GyroY, r.GyroZ,
		r.AccelX, r.AccelY, r.AccelZ,
	)
	if r.TouchPacketsN > 0 {
		for _, p := range []TouchPoint{r.CurrentTouch.Point1(), r.CurrentTouch.Point2()} {
			if p.Active {
				s += fmt.Sprintf(" touch%d=(%d,%d)", p.ID, p.X, p.Y)
			}
		}
	}
	return s
}
