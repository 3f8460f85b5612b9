package dualshock4

// Extended report buffer size (DS4_REPORT_EX).
const ReportSize = 63

// (ApiClient) Stream frame sizes.
const (
	InputStateSize  = 31
	OutputStateSize = 7
)

// Button bits of Report.Buttons. The low nibble holds the DPad value.
const (
	ButtonSquare        uint16 = 1 << 4
	ButtonCross         uint16 = 1 << 5
	ButtonCircle        uint16 = 1 << 6
	ButtonTriangle      uint16 = 1 << 7
	ButtonShoulderLeft  uint16 = 1 << 8
	ButtonShoulderRight uint16 = 1 << 9
	ButtonTriggerLeft   uint16 = 1 << 10
	ButtonTriggerRight  uint16 = 1 << 11
	ButtonShare         uint16 = 1 << 12
	ButtonOptions       uint16 = 1 << 13
	ButtonThumbLeft     uint16 = 1 << 14
	ButtonThumbRight    uint16 = 1 << 15

	dpadMask uint16 = 0x000F
)

// Special button bits of Report.Special.
const (
	SpecialPS       uint8 = 1 << 0
	SpecialTouchpad uint8 = 1 << 1
)

// DPad is the hat switch value stored in the low nibble of Report.Buttons.
type DPad uint8

const (
	DPadNorth DPad = iota
	DPadNorthEast
	DPadEast
	DPadSouthEast
	DPadSouth
	DPadSouthWest
	DPadWest
	DPadNorthWest
	DPadNone
)

var dpadNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW", "-"}

func (d DPad) String() string {
	if int(d) < len(dpadNames) {
		return dpadNames[d]
	}
	return "?"
}

// Stick axis center.
const StickCenter uint8 = 0x80

// touchActiveBit set in a tracking byte means the finger is lifted.
const touchActiveBit uint8 = 0x80

// InputState button bits (VIIPER dualshock4 device).
const (
	StateSquare uint16 = 1 << iota
	StateCross
	StateCircle
	StateTriangle
	StateL1
	StateR1
	StateL2
	StateR2
	StateShare
	StateOptions
	StateL3
	StateR3
	StatePS
	StateTouchpad
)
