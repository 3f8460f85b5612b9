package switchctl

import (
	"encoding/binary"

	"github.com/Alia5/joybridge/internal/mathx"
)

// Motion is the raw IMU sample of a notification.
type Motion struct {
	AccelX, AccelY, AccelZ int16
	GyroX, GyroY, GyroZ    int16
}

// DecodeMotion reads accelerometer and gyroscope words (little-endian).
// Notifications shorter than MinReportLen yield a zero sample.
func DecodeMotion(buf []byte) Motion {
	if len(buf) < MinReportLen {
		return Motion{}
	}
	i16 := func(o int) int16 { return int16(binary.LittleEndian.Uint16(buf[o : o+2])) }
	return Motion{
		AccelX: i16(offsetAccel),
		AccelY: i16(offsetAccel + 2),
		AccelZ: i16(offsetAccel + 4),
		GyroX:  i16(offsetGyro),
		GyroY:  i16(offsetGyro + 2),
		GyroZ:  i16(offsetGyro + 4),
	}
}

// Touch surface the optical pointer is mapped onto.
const (
	TouchWidth  = 1920
	TouchHeight = 943
)

// Point is a touch surface coordinate.
type Point struct {
	X, Y uint16
}

// DefaultPoint is reported when no pointer data is available; it is also
// where a centered pointer lands.
var DefaultPoint = Point{X: 960, Y: 471}

// DecodePointer maps the optical pointer words at 0x10/0x12 onto the touch
// surface. Y grows downward.
func DecodePointer(buf []byte) Point {
	if len(buf) < MinPointerLen {
		return DefaultPoint
	}
	rx := int16(binary.LittleEndian.Uint16(buf[offsetPointerX : offsetPointerX+2]))
	ry := int16(binary.LittleEndian.Uint16(buf[offsetPointerY : offsetPointerY+2]))
	nx := mathx.Clamp(float64(rx)/AxisMax, -1, 1)
	ny := mathx.Clamp(float64(ry)/AxisMax, -1, 1)
	return Point{
		X: uint16((nx + 1) * 0.5 * TouchWidth),
		Y: uint16((1 - (ny+1)*0.5) * TouchHeight),
	}
}
