// Package switchctl decodes the raw BLE input report notifications of
// Nintendo Switch controllers: Joy-Con (L/R), Pro Controller and the
// NSO GameCube controller.
//
// All decoders are pure functions over the notification bytes. Buffers that
// are too short for a field yield that field's neutral value.
package switchctl

import (
	"fmt"
	"strings"
)

// Minimum notification lengths.
const (
	// MinReportLen is required for a full decode (buttons, sticks, motion).
	MinReportLen = 0x3C
	// MinStickLen is required by the stick decoder.
	MinStickLen = 16
	// MinPointerLen is required by the optical pointer decoder.
	MinPointerLen = 0x18
)

// Field offsets within a notification.
const (
	offsetButtonsRight = 3
	offsetButtonsLeft  = 4
	offsetStickLeft    = 10
	offsetStickRight   = 13
	offsetPointerX     = 0x10
	offsetPointerY     = 0x12
	offsetAccel        = 0x30
	offsetGyro         = 0x36
)

// Family identifies the controller kind that produced a notification.
type Family int

const (
	SingleJoyCon Family = iota
	DualJoyCon
	ProController
	NSOGameCubeController
)

var familyNames = map[Family]string{
	SingleJoyCon:          "single-joycon",
	DualJoyCon:            "dual-joycon",
	ProController:         "pro",
	NSOGameCubeController: "nso-gc",
}

func (f Family) String() string {
	if s, ok := familyNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

func (f Family) MarshalText() ([]byte, error) {
	if _, ok := familyNames[f]; !ok {
		return nil, fmt.Errorf("unknown controller family %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *Family) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for k, v := range familyNames {
		if v == s {
			*f = k
			return nil
		}
	}
	return fmt.Errorf("unknown controller family %q (want single-joycon, dual-joycon, pro or nso-gc)", s)
}

// Side is the physical side of a Joy-Con unit.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

func (s Side) MarshalText() ([]byte, error) {
	if s != Left && s != Right {
		return nil, fmt.Errorf("unknown side %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "left", "l":
		*s = Left
	case "right", "r":
		*s = Right
	default:
		return fmt.Errorf("unknown side %q (want left or right)", string(b))
	}
	return nil
}

// Orientation is how a single Joy-Con is held.
type Orientation int

const (
	Upright Orientation = iota
	Sideways
)

func (o Orientation) String() string {
	switch o {
	case Upright:
		return "upright"
	case Sideways:
		return "sideways"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

func (o Orientation) MarshalText() ([]byte, error) {
	if o != Upright && o != Sideways {
		return nil, fmt.Errorf("unknown orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "upright":
		*o = Upright
	case "sideways":
		*o = Sideways
	default:
		return fmt.Errorf("unknown orientation %q (want upright or sideways)", string(b))
	}
	return nil
}
