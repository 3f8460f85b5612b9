package dualshock4

import (
	"encoding/binary"
	"io"
)

// InputState is the client-facing input frame of a VIIPER dualshock4 device.
//
// Wire format (client -> device stream): fixed 31 bytes, little-endian.
// viiper:wire dualshock4 c2s stickLX:i8 stickLY:i8 stickRX:i8 stickRY:i8 buttons:u16 dpad:u8 triggerL2:u8 triggerR2:u8 touch1X:u16 touch1Y:u16 touch1Active:bool touch2X:u16 touch2Y:u16 touch2Active:bool gyroX:i16 gyroY:i16 gyroZ:i16 accelX:i16 accelY:i16 accelZ:i16
type InputState struct {
	LX, LY  int8
	RX, RY  int8
	Buttons uint16
	DPad    uint8
	L2, R2  uint8

	Touch1X, Touch1Y uint16
	Touch1Active     bool
	Touch2X, Touch2Y uint16
	Touch2Active     bool

	GyroX, GyroY, GyroZ    int16
	AccelX, AccelY, AccelZ int16
}

// InputState converts the extended report into a VIIPER stream frame.
// Sticks are re-centered on 0, buttons are shifted past the DPad nibble
// with PS and touchpad click appended.
func (r Report) InputState() InputState {
	s := InputState{
		LX:      centered(r.ThumbLX),
		LY:      centered(r.ThumbLY),
		RX:      centered(r.ThumbRX),
		RY:      centered(r.ThumbRY),
		Buttons: r.Buttons >> 4,
		DPad:    uint8(r.DPad()),
		L2:      r.TriggerL,
		R2:      r.TriggerR,
		GyroX:   r.GyroX,
		GyroY:   r.GyroY,
		GyroZ:   r.GyroZ,
		AccelX:  r.AccelX,
		AccelY:  r.AccelY,
		AccelZ:  r.AccelZ,
	}
	if r.Special&SpecialPS != 0 {
		s.Buttons |= StatePS
	}
	if r.Special&SpecialTouchpad != 0 {
		s.Buttons |= StateTouchpad
	}
	if r.TouchPacketsN > 0 {
		p1, p2 := r.CurrentTouch.Point1(), r.CurrentTouch.Point2()
		s.Touch1X, s.Touch1Y, s.Touch1Active = p1.X, p1.Y, p1.Active
		s.Touch2X, s.Touch2Y, s.Touch2Active = p2.X, p2.Y, p2.Active
	}
	return s
}

func centered(v uint8) int8 {
	return int8(int(v) - int(StickCenter))
}

// MarshalBinary encodes InputState to the fixed 31-byte wire format.
func (s InputState) MarshalBinary() ([]byte, error) {
	b := make([]byte, InputStateSize)
	b[0] = uint8(s.LX)
	b[1] = uint8(s.LY)
	b[2] = uint8(s.RX)
	b[3] = uint8(s.RY)
	binary.LittleEndian.PutUint16(b[4:6], s.Buttons)
	b[6] = s.DPad
	b[7] = s.L2
	b[8] = s.R2
	binary.LittleEndian.PutUint16(b[9:11], s.Touch1X)
	binary.LittleEndian.PutUint16(b[11:13], s.Touch1Y)
	b[13] = boolByte(s.Touch1Active)
	binary.LittleEndian.PutUint16(b[14:16], s.Touch2X)
	binary.LittleEndian.PutUint16(b[16:18], s.Touch2Y)
	b[18] = boolByte(s.Touch2Active)

	o := 19
	for _, v := range []int16{s.GyroX, s.GyroY, s.GyroZ, s.AccelX, s.AccelY, s.AccelZ} {
		binary.LittleEndian.PutUint16(b[o:o+2], uint16(v))
		o += 2
	}
	return b, nil
}

// UnmarshalBinary decodes the fixed 31-byte wire format.
func (s *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < InputStateSize {
		return io.ErrUnexpectedEOF
	}
	s.LX = int8(data[0])
	s.LY = int8(data[1])
	s.RX = int8(data[2])
	s.RY = int8(data[3])
	s.Buttons = binary.LittleEndian.Uint16(data[4:6])
	s.DPad = data[6]
	s.L2 = data[7]
	s.R2 = data[8]
	s.Touch1X = binary.LittleEndian.Uint16(data[9:11])
	s.Touch1Y = binary.LittleEndian.Uint16(data[11:13])
	s.Touch1Active = data[13] != 0
	s.Touch2X = binary.LittleEndian.Uint16(data[14:16])
	s.Touch2Y = binary.LittleEndian.Uint16(data[16:18])
	s.Touch2Active = data[18] != 0
	i16 := func(o int) int16 { return int16(binary.LittleEndian.Uint16(data[o : o+2])) }
	s.GyroX, s.GyroY, s.GyroZ = i16(19), i16(21), i16(23)
	s.AccelX, s.AccelY, s.AccelZ = i16(25), i16(27), i16(29)
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// OutputState is the feedback frame sent by the device (rumble and lightbar).
//
// viiper:wire dualshock4 s2c rumbleSmall:u8 rumbleLarge:u8 ledRed:u8 ledGreen:u8 ledBlue:u8 flashOn:u8 flashOff:u8
type OutputState struct {
	RumbleSmall uint8
	RumbleLarge uint8
	LedRed      uint8
	LedGreen    uint8
	LedBlue     uint8
	FlashOn     uint8 // units of 2.5ms
	FlashOff    uint8 // units of 2.5ms
}

func (f OutputState) MarshalBinary() ([]byte, error) {
	return []byte{f.RumbleSmall, f.RumbleLarge, f.LedRed, f.LedGreen, f.LedBlue, f.FlashOn, f.FlashOff}, nil
}

func (f *OutputState) UnmarshalBinary(data []byte) error {
	if len(data) < OutputStateSize {
		return io.ErrUnexpectedEOF
	}
	f.RumbleSmall = data[0]
	f.RumbleLarge = data[1]
	f.LedRed = data[2]
	f.LedGreen = data[3]
	f.LedBlue = data[4]
	f.FlashOn = data[5]
	f.FlashOff = data[6]
	return nil
}
