package switchctl

// Buttons is the raw button bitfield extracted from a notification.
// Joy-Con units carry 24 bits, Pro/NSO GameCube controllers 48 bits.
type Buttons uint64

// Has reports whether any bit of mask is set.
func (b Buttons) Has(mask Buttons) bool {
	return b&mask != 0
}

// Joy-Con (L) masks.
const (
	JoyConLeftDown  Buttons = 0x000001
	JoyConLeftUp    Buttons = 0x000002
	JoyConLeftRight Buttons = 0x000004
	JoyConLeftLeft  Buttons = 0x000008
	JoyConLeftSR    Buttons = 0x000010
	JoyConLeftSL    Buttons = 0x000020
	JoyConLeftL     Buttons = 0x000040
	JoyConLeftZL    Buttons = 0x000080
	JoyConLeftMinus Buttons = 0x000100
	JoyConLeftStick Buttons = 0x000800
)

// Joy-Con (R) masks.
const (
	JoyConRightPlus  Buttons = 0x000002
	JoyConRightStick Buttons = 0x000004
	JoyConRightY     Buttons = 0x000100
	JoyConRightB     Buttons = 0x000200
	JoyConRightX     Buttons = 0x000400
	JoyConRightA     Buttons = 0x000800
	JoyConRightSR    Buttons = 0x001000
	JoyConRightSL    Buttons = 0x002000
	JoyConRightR     Buttons = 0x004000
	JoyConRightZR    Buttons = 0x008000
)

// Pro Controller / NSO GameCube masks.
const (
	ProDown   Buttons = 0x000000010000
	ProUp     Buttons = 0x000000020000
	ProRight  Buttons = 0x000000040000
	ProLeft   Buttons = 0x000000080000
	ProL      Buttons = 0x000000400000
	ProZL     Buttons = 0x000000800000
	ProMinus  Buttons = 0x000001000000
	ProPlus   Buttons = 0x000002000000
	ProRStick Buttons = 0x000004000000
	ProLStick Buttons = 0x000008000000
	ProHome   Buttons = 0x000010000000
	ProY      Buttons = 0x000100000000
	ProX      Buttons = 0x000200000000
	ProB      Buttons = 0x000400000000
	ProA      Buttons = 0x000800000000
	ProR      Buttons = 0x004000000000
	ProZR     Buttons = 0x008000000000
)

// JoyConButtons reads the 3 button bytes of a Joy-Con notification,
// most significant byte first. The left unit's field starts one byte later.
func JoyConButtons(buf []byte, side Side) Buttons {
	off := offsetButtonsLeft
	if side == Right {
		off = offsetButtonsRight
	}
	return readMSB(buf, off, 3)
}

// ProButtons reads the 6 button bytes of a Pro / NSO GameCube notification.
func ProButtons(buf []byte) Buttons {
	return readMSB(buf, offsetButtonsRight, 6)
}

func readMSB(buf []byte, off, n int) Buttons {
	if len(buf) < off+n {
		return 0
	}
	var b Buttons
	for _, v := range buf[off : off+n] {
		b = b<<8 | Buttons(v)
	}
	return b
}
