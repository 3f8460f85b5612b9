package dualshock4

// Touch is one touchpad packet of the extended report (9 bytes).
type Touch struct {
	PacketCounter    uint8
	IsUpTrackingNum1 uint8
	TouchData1       [3]byte
	IsUpTrackingNum2 uint8
	TouchData2       [3]byte
}

// TouchPoint is a decoded touch contact.
type TouchPoint struct {
	ID     uint8
	X, Y   uint16
	Active bool
}

// PackTouch packs 12-bit x/y coordinates into the 3-byte touch layout.
func PackTouch(x, y uint16) [3]byte {
	return [3]byte{
		byte(x & 0xFF),
		byte((x>>8)&0x0F) | byte((y&0x0F)<<4),
		byte((y >> 4) & 0xFF),
	}
}

// UnpackTouch is the inverse of PackTouch.
func UnpackTouch(d [3]byte) (x, y uint16) {
	x = uint16(d[0]) | uint16(d[1]&0x0F)<<8
	y = uint16(d[1]>>4) | uint16(d[2])<<4
	return x, y
}

// SetPoint1 marks the first contact active with the given tracking id.
func (t *Touch) SetPoint1(id uint8, x, y uint16) {
	t.IsUpTrackingNum1 = id &^ touchActiveBit
	t.TouchData1 = PackTouch(x, y)
}

// SetPoint2 marks the second contact active with the given tracking id.
func (t *Touch) SetPoint2(id uint8, x, y uint16) {
	t.IsUpTrackingNum2 = id &^ touchActiveBit
	t.TouchData2 = PackTouch(x, y)
}

func (t Touch) Point1() TouchPoint {
	return decodePoint(t.IsUpTrackingNum1, t.TouchData1)
}

func (t Touch) Point2() TouchPoint {
	return decodePoint(t.IsUpTrackingNum2, t.TouchData2)
}

// A zero tracking byte is an untouched slot, not contact 0.
func decodePoint(tracking uint8, data [3]byte) TouchPoint {
	x, y := UnpackTouch(data)
	id := tracking &^ touchActiveBit
	return TouchPoint{
		ID:     id,
		X:      x,
		Y:      y,
		Active: tracking&touchActiveBit == 0 && id != 0,
	}
}
