package translate

import (
	"github.com/Alia5/joybridge/device/dualshock4"
	"github.com/Alia5/joybridge/device/switchctl"
)

type buttonMapping struct {
	src switchctl.Buttons
	dst uint16
}

type specialMapping struct {
	src switchctl.Buttons
	dst uint8
}

type dpadMasks struct {
	up, down, left, right switchctl.Buttons
}

// layout maps one family/side's raw bits onto the DS4 report.
type layout struct {
	buttons  []buttonMapping
	specials []specialMapping
	dpad     *dpadMasks
}

var joyConLeftLayout = layout{
	buttons: []buttonMapping{
		{switchctl.JoyConLeftMinus, dualshock4.ButtonShare},
		{switchctl.JoyConLeftL, dualshock4.ButtonShoulderLeft},
		{switchctl.JoyConLeftStick, dualshock4.ButtonThumbLeft},
	},
	dpad: &dpadMasks{
		up:    switchctl.JoyConLeftUp,
		down:  switchctl.JoyConLeftDown,
		left:  switchctl.JoyConLeftLeft,
		right: switchctl.JoyConLeftRight,
	},
}

var joyConRightLayout = layout{
	buttons: []buttonMapping{
		{switchctl.JoyConRightA, dualshock4.ButtonCircle},
		{switchctl.JoyConRightB, dualshock4.ButtonTriangle},
		{switchctl.JoyConRightX, dualshock4.ButtonCross},
		{switchctl.JoyConRightY, dualshock4.ButtonSquare},
		{switchctl.JoyConRightPlus, dualshock4.ButtonOptions},
		{switchctl.JoyConRightR, dualshock4.ButtonShoulderRight},
		{switchctl.JoyConRightStick, dualshock4.ButtonThumbRight},
	},
}

// Pro Controller and NSO GameCube controller share this table.
var proLayout = layout{
	buttons: []buttonMapping{
		{switchctl.ProA, dualshock4.ButtonCircle},
		{switchctl.ProB, dualshock4.ButtonTriangle},
		{switchctl.ProX, dualshock4.ButtonCross},
		{switchctl.ProY, dualshock4.ButtonSquare},
		{switchctl.ProL, dualshock4.ButtonShoulderLeft},
		{switchctl.ProR, dualshock4.ButtonShoulderRight},
		{switchctl.ProLStick, dualshock4.ButtonThumbLeft},
		{switchctl.ProRStick, dualshock4.ButtonThumbRight},
		{switchctl.ProMinus, dualshock4.ButtonShare},
		{switchctl.ProPlus, dualshock4.ButtonOptions},
	},
	specials: []specialMapping{
		{switchctl.ProHome, dualshock4.SpecialPS},
	},
	dpad: &dpadMasks{
		up:    switchctl.ProUp,
		down:  switchctl.ProDown,
		left:  switchctl.ProLeft,
		right: switchctl.ProRight,
	},
}

func joyConLayout(side switchctl.Side) layout {
	if side == switchctl.Left {
		return joyConLeftLayout
	}
	return joyConRightLayout
}

func (l layout) apply(b switchctl.Buttons, r *dualshock4.Report) {
	for _, m := range l.buttons {
		if b.Has(m.src) {
			r.Buttons |= m.dst
		}
	}
	for _, m := range l.specials {
		if b.Has(m.src) {
			r.Special |= m.dst
		}
	}
	d := dualshock4.DPadNone
	if l.dpad != nil {
		d = l.dpad.resolve(b)
	}
	r.SetDPad(d)
}

// resolve picks the 8-way direction; diagonals win over single directions.
func (m dpadMasks) resolve(b switchctl.Buttons) dualshock4.DPad {
	up, down := b.Has(m.up), b.Has(m.down)
	left, right := b.Has(m.left), b.Has(m.right)
	switch {
	case up && left:
		return dualshock4.DPadNorthWest
	case up && right:
		return dualshock4.DPadNorthEast
	case down && left:
		return dualshock4.DPadSouthWest
	case down && right:
		return dualshock4.DPadSouthEast
	case up:
		return dualshock4.DPadNorth
	case down:
		return dualshock4.DPadSouth
	case left:
		return dualshock4.DPadWest
	case right:
		return dualshock4.DPadEast
	}
	return dualshock4.DPadNone
}

const triggerPressed uint8 = 0xFF

// triggers is the digital trigger/shoulder state of one raw button field.
type triggers struct {
	left, right                 uint8
	shoulderLeft, shoulderRight bool
}

// joyConTriggers decodes ZL/ZR and the shoulders. Upright uses L/R,
// sideways uses the unit's SL/SR.
func joyConTriggers(b switchctl.Buttons, side switchctl.Side, o switchctl.Orientation) triggers {
	t := triggers{
		left:  pressedValue(b.Has(switchctl.JoyConLeftZL)),
		right: pressedValue(b.Has(switchctl.JoyConRightZR)),
	}
	if o == switchctl.Upright {
		t.shoulderLeft = b.Has(switchctl.JoyConLeftL)
		t.shoulderRight = b.Has(switchctl.JoyConRightR)
		return t
	}
	sl, sr := switchctl.JoyConLeftSL, switchctl.JoyConLeftSR
	if side == switchctl.Right {
		sl, sr = switchctl.JoyConRightSL, switchctl.JoyConRightSR
	}
	t.shoulderLeft = b.Has(sl)
	t.shoulderRight = b.Has(sr)
	return t
}

func proTriggers(b switchctl.Buttons) triggers {
	return triggers{
		left:  pressedValue(b.Has(switchctl.ProZL)),
		right: pressedValue(b.Has(switchctl.ProZR)),
	}
}

func (t triggers) applyLeft(r *dualshock4.Report) {
	r.TriggerL = t.left
	if t.left != 0 {
		r.Buttons |= dualshock4.ButtonTriggerLeft
	}
	if t.shoulderLeft {
		r.Buttons |= dualshock4.ButtonShoulderLeft
	}
}

func (t triggers) applyRight(r *dualshock4.Report) {
	r.TriggerR = t.right
	if t.right != 0 {
		r.Buttons |= dualshock4.ButtonTriggerRight
	}
	if t.shoulderRight {
		r.Buttons |= dualshock4.ButtonShoulderRight
	}
}

func pressedValue(pressed bool) uint8 {
	if pressed {
		return triggerPressed
	}
	return 0
}
