// Package translate turns raw Switch controller notifications into
// DualShock 4 extended reports.
//
// Every function here is pure: the report is built from scratch on each
// call and no state is kept between calls, so encoders may be used from
// any number of goroutines.
package translate

import (
	"fmt"
	"math"

	"github.com/Alia5/joybridge/device/dualshock4"
	"github.com/Alia5/joybridge/device/switchctl"
	"github.com/Alia5/joybridge/internal/mathx"
)

// Tracking ids of the emulated touch contacts.
const (
	touchIDPrimary   uint8 = 1
	touchIDSecondary uint8 = 2
)

// JoyCon encodes a single Joy-Con notification. The unit's stick always
// lands on the left thumbstick.
func JoyCon(buf []byte, side switchctl.Side, o switchctl.Orientation) dualshock4.Report {
	r := dualshock4.NewReport()
	if len(buf) < switchctl.MinReportLen {
		return r
	}

	b := switchctl.JoyConButtons(buf, side)
	joyConLayout(side).apply(b, &r)

	t := joyConTriggers(b, side, o)
	t.applyLeft(&r)
	t.applyRight(&r)

	p := switchctl.DecodePointer(buf)
	r.TouchPacketsN = 1
	r.CurrentTouch.PacketCounter++
	r.CurrentTouch.SetPoint1(touchIDPrimary, p.X, p.Y)
	r.Special |= dualshock4.SpecialTouchpad

	r.ThumbLX, r.ThumbLY = switchctl.DecodeJoyConStick(buf, side, o).Bytes()
	setMotion(&r, switchctl.DecodeMotion(buf))
	return r
}

// Pro encodes a Pro Controller notification.
func Pro(buf []byte) dualshock4.Report {
	r := dualshock4.NewReport()
	if len(buf) < switchctl.MinReportLen {
		return r
	}

	b := switchctl.ProButtons(buf)
	proLayout.apply(b, &r)

	// ZL/ZR drive only the analog triggers; L2/R2 button bits stay clear.
	t := proTriggers(b)
	r.TriggerL, r.TriggerR = t.left, t.right

	l, rs := switchctl.ProSticks(buf)
	r.ThumbLX, r.ThumbLY = l.InvertY().Bytes()
	r.ThumbRX, r.ThumbRY = rs.InvertY().Bytes()
	setMotion(&r, switchctl.DecodeMotion(buf))
	return r
}

// NSOGameCube encodes an NSO GameCube controller notification. It shares
// the Pro Controller layout.
func NSOGameCube(buf []byte) dualshock4.Report {
	return Pro(buf)
}

// Dual fuses the latest notifications of a left and a right Joy-Con into
// one report. Both units are treated as upright.
func Dual(left, right []byte) dualshock4.Report {
	r := dualshock4.NewReport()
	leftOK := len(left) >= switchctl.MinReportLen
	rightOK := len(right) >= switchctl.MinReportLen
	if !leftOK && !rightOK {
		return r
	}

	lr := JoyCon(left, switchctl.Left, switchctl.Upright)
	rr := JoyCon(right, switchctl.Right, switchctl.Upright)

	// Shoulder and trigger bits are re-derived per side below.
	const perSide = dualshock4.ButtonShoulderLeft | dualshock4.ButtonShoulderRight |
		dualshock4.ButtonTriggerLeft | dualshock4.ButtonTriggerRight
	const dpad = 0x000F
	r.Buttons = (lr.Buttons|rr.Buttons)&^(dpad|perSide) | lr.Buttons&dpad
	r.Special = lr.Special | rr.Special

	if leftOK {
		joyConTriggers(switchctl.JoyConButtons(left, switchctl.Left), switchctl.Left, switchctl.Upright).applyLeft(&r)
	}
	if rightOK {
		joyConTriggers(switchctl.JoyConButtons(right, switchctl.Right), switchctl.Right, switchctl.Upright).applyRight(&r)
	}

	p1 := switchctl.DecodePointer(left)
	p2 := switchctl.DecodePointer(right)
	r.TouchPacketsN = 1
	r.CurrentTouch.PacketCounter++
	r.CurrentTouch.SetPoint1(touchIDPrimary, p1.X, p1.Y)
	r.CurrentTouch.SetPoint2(touchIDSecondary, p2.X, p2.Y)
	r.Special |= dualshock4.SpecialTouchpad

	r.ThumbLX, r.ThumbLY = lr.ThumbLX, lr.ThumbLY
	r.ThumbRX, r.ThumbRY = rr.ThumbLX, rr.ThumbLY

	r.AccelX = CombineMotion(lr.AccelX, rr.AccelX)
	r.AccelY = CombineMotion(lr.AccelY, rr.AccelY)
	r.AccelZ = CombineMotion(lr.AccelZ, rr.AccelZ)
	r.GyroX = CombineMotion(lr.GyroX, rr.GyroX)
	r.GyroY = CombineMotion(lr.GyroY, rr.GyroY)
	r.GyroZ = CombineMotion(lr.GyroZ, rr.GyroZ)
	return r
}

// CombineMotion merges one motion axis of two units. A zero reading counts
// as missing, so the other unit's value passes through unchanged; otherwise
// both halves are rounded and summed.
func CombineMotion(a, b int16) int16 {
	switch {
	case a == 0:
		return b
	case b == 0:
		return a
	}
	sum := math.Round(float64(a)/2) + math.Round(float64(b)/2)
	return int16(mathx.Clamp(sum, math.MinInt16, math.MaxInt16))
}

func setMotion(r *dualshock4.Report, m switchctl.Motion) {
	r.AccelX, r.AccelY, r.AccelZ = m.AccelX, m.AccelY, m.AccelZ
	r.GyroX, r.GyroY, r.GyroZ = m.GyroX, m.GyroY, m.GyroZ
}

// Selection picks the encoder for a controller.
type Selection struct {
	Family      switchctl.Family
	Side        switchctl.Side
	Orientation switchctl.Orientation
}

func (s Selection) String() string {
	if s.Family == switchctl.SingleJoyCon {
		return fmt.Sprintf("%s/%s/%s", s.Family, s.Side, s.Orientation)
	}
	return s.Family.String()
}

// Translate encodes buf with the encoder selected by s. For DualJoyCon
// buf is the left unit and right the right unit; right is ignored for
// every other family.
func (s Selection) Translate(buf, right []byte) dualshock4.Report {
	switch s.Family {
	case switchctl.SingleJoyCon:
		return JoyCon(buf, s.Side, s.Orientation)
	case switchctl.DualJoyCon:
		return Dual(buf, right)
	case switchctl.ProController:
		return Pro(buf)
	case switchctl.NSOGameCubeController:
		return NSOGameCube(buf)
	}
	return dualshock4.NewReport()
}
