package switchctl

import (
	"math"

	"github.com/Alia5/joybridge/internal/mathx"
)

const (
	stickRawCenter = 2048
	stickDeadzone  = 0.08
	stickGain      = 1.7

	// AxisMax is the magnitude of a fully deflected stick axis.
	AxisMax = 32767
)

// Stick is a decoded analog stick position in [-AxisMax, AxisMax].
type Stick struct {
	X, Y int16
}

// InvertY flips the vertical axis.
func (s Stick) InvertY() Stick {
	return Stick{X: s.X, Y: -s.Y}
}

// Bytes maps both axes to the 0-255 range centered on 128.
func (s Stick) Bytes() (x, y uint8) {
	return AxisByte(s.X), AxisByte(s.Y)
}

// AxisByte maps an axis value to 0-255, 0 becoming 128.
func AxisByte(v int16) uint8 {
	f := math.Round(float64(v)/AxisMax*127 + 128)
	return uint8(mathx.Clamp(f, 0, 255))
}

// DecodeJoyConStick decodes the single stick of a Joy-Con unit.
// Notifications shorter than MinStickLen yield a centered stick.
// The returned Y axis is inverted (up is negative).
func DecodeJoyConStick(buf []byte, side Side, o Orientation) Stick {
	if len(buf) < MinStickLen {
		return Stick{}
	}
	off := offsetStickLeft
	if side == Right {
		off = offsetStickRight
	}
	x, y := normalizeStick(buf[off : off+3])
	if o == Sideways {
		if side == Left {
			x, y = -y, x
		} else {
			x, y = y, -x
		}
	}
	x, y = shapeStick(x, y)
	return Stick{X: toAxis(x), Y: toAxis(-y)}
}

// DecodeProStick decodes one packed 3-byte stick field of a Pro or NSO
// GameCube controller. Unlike DecodeJoyConStick the Y axis is not inverted.
func DecodeProStick(field []byte) Stick {
	if len(field) < 3 {
		return Stick{}
	}
	x, y := shapeStick(normalizeStick(field))
	return Stick{X: toAxis(x), Y: toAxis(y)}
}

// ProSticks returns the left and right stick fields of a Pro notification.
func ProSticks(buf []byte) (left, right Stick) {
	if len(buf) < MinStickLen {
		return Stick{}, Stick{}
	}
	return DecodeProStick(buf[offsetStickLeft : offsetStickLeft+3]),
		DecodeProStick(buf[offsetStickRight : offsetStickRight+3])
}

// unpackStick splits two 12-bit values packed little-endian into 3 bytes.
func unpackStick(b []byte) (x, y int) {
	x = int(b[1]&0x0F)<<8 | int(b[0])
	y = int(b[2])<<4 | int(b[1]&0xF0)>>4
	return x, y
}

func normalizeStick(b []byte) (x, y float64) {
	rx, ry := unpackStick(b)
	return float64(rx-stickRawCenter) / stickRawCenter, float64(ry-stickRawCenter) / stickRawCenter
}

func shapeStick(x, y float64) (float64, float64) {
	if mathx.Abs(x) < stickDeadzone && mathx.Abs(y) < stickDeadzone {
		return 0, 0
	}
	return mathx.Clamp(x*stickGain, -1, 1), mathx.Clamp(y*stickGain, -1, 1)
}

func toAxis(v float64) int16 {
	return int16(math.Round(v * AxisMax))
}
