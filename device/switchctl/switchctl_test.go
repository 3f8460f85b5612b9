package switchctl_test

import (
	"encoding/binary"
	"testing"

	"github.com/Alia5/joybridge/device/switchctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packStick packs two 12-bit stick values the way the controller does.
func packStick(x, y int) []byte {
	return []byte{
		byte(x & 0xFF),
		byte((x>>8)&0x0F) | byte((y&0x0F)<<4),
		byte(y >> 4),
	}
}

func notification(n int) []byte {
	buf := make([]byte, n)
	copy(buf[10:13], packStick(2048, 2048))
	copy(buf[13:16], packStick(2048, 2048))
	return buf
}

func TestJoyConStick(t *testing.T) {
	type testCase struct {
		name        string
		side        switchctl.Side
		orientation switchctl.Orientation
		x, y        int
		length      int
		want        switchctl.Stick
	}
	cases := []testCase{
		{name: "centered", x: 2048, y: 2048, length: 60, want: switchctl.Stick{}},
		{name: "inside deadzone", x: 2048 + 150, y: 2048 - 150, length: 60, want: switchctl.Stick{}},
		{name: "full right", x: 4095, y: 2048, length: 60, want: switchctl.Stick{X: 32767, Y: 0}},
		{name: "full up inverts y", x: 2048, y: 4095, length: 60, want: switchctl.Stick{X: 0, Y: -32767}},
		{name: "full down", x: 2048, y: 0, length: 60, want: switchctl.Stick{X: 0, Y: 32767}},
		{name: "gain applied", x: 2048 + 600, y: 2048, length: 60, want: switchctl.Stick{X: 16320, Y: 0}},
		{name: "stick-only length", x: 0, y: 2048, length: 16, want: switchctl.Stick{X: -32767, Y: 0}},
		{name: "too short", x: 4095, y: 4095, length: 15, want: switchctl.Stick{}},
		{
			name: "sideways left rotates", orientation: switchctl.Sideways,
			x: 4095, y: 2048, length: 60, want: switchctl.Stick{X: 0, Y: -32767},
		},
		{
			name: "sideways right rotates", side: switchctl.Right, orientation: switchctl.Sideways,
			x: 4095, y: 2048, length: 60, want: switchctl.Stick{X: 0, Y: 32767},
		},
		{
			name: "right upright", side: switchctl.Right,
			x: 4095, y: 0, length: 60, want: switchctl.Stick{X: 32767, Y: 32767},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, 60)
			off := 10
			if tc.side == switchctl.Right {
				off = 13
			}
			copy(buf[off:off+3], packStick(tc.x, tc.y))
			got := switchctl.DecodeJoyConStick(buf[:tc.length], tc.side, tc.orientation)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProStick(t *testing.T) {
	s := switchctl.DecodeProStick(packStick(2048, 4095))
	assert.Equal(t, switchctl.Stick{X: 0, Y: 32767}, s)
	assert.Equal(t, switchctl.Stick{X: 0, Y: -32767}, s.InvertY())
	assert.Equal(t, switchctl.Stick{}, switchctl.DecodeProStick([]byte{0xFF}))

	buf := notification(60)
	copy(buf[10:13], packStick(0, 2048))
	copy(buf[13:16], packStick(4095, 2048))
	l, r := switchctl.ProSticks(buf)
	assert.Equal(t, switchctl.Stick{X: -32767}, l)
	assert.Equal(t, switchctl.Stick{X: 32767}, r)
}

func TestAxisByte(t *testing.T) {
	type testCase struct {
		in   int16
		want uint8
	}
	cases := []testCase{
		{0, 128},
		{32767, 255},
		{-32767, 1},
		{16320, 191},
		{-32768, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, switchctl.AxisByte(tc.in), "axis %d", tc.in)
	}
	x, y := switchctl.Stick{X: 32767, Y: -32767}.Bytes()
	assert.Equal(t, uint8(255), x)
	assert.Equal(t, uint8(1), y)
}

func TestButtons(t *testing.T) {
	buf := make([]byte, 60)
	copy(buf[3:9], []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})

	assert.Equal(t, switchctl.Buttons(0x010203), switchctl.JoyConButtons(buf, switchctl.Right))
	assert.Equal(t, switchctl.Buttons(0x020304), switchctl.JoyConButtons(buf, switchctl.Left))
	assert.Equal(t, switchctl.Buttons(0x010203040506), switchctl.ProButtons(buf))

	assert.Zero(t, switchctl.JoyConButtons(buf[:6], switchctl.Left))
	assert.Zero(t, switchctl.ProButtons(buf[:8]))

	b := switchctl.JoyConButtons([]byte{0, 0, 0, 0x00, 0x08, 0x00}, switchctl.Right)
	assert.True(t, b.Has(switchctl.JoyConRightA))
	assert.False(t, b.Has(switchctl.JoyConRightB))
}

func TestMotion(t *testing.T) {
	buf := notification(60)
	for i, v := range []int16{100, -200, 300, -1, 2, -32768} {
		binary.LittleEndian.PutUint16(buf[0x30+2*i:], uint16(v))
	}
	m := switchctl.DecodeMotion(buf)
	assert.Equal(t, switchctl.Motion{
		AccelX: 100, AccelY: -200, AccelZ: 300,
		GyroX: -1, GyroY: 2, GyroZ: -32768,
	}, m)
	assert.Equal(t, switchctl.Motion{}, switchctl.DecodeMotion(buf[:59]))
}

func TestPointer(t *testing.T) {
	type testCase struct {
		name   string
		rx, ry int16
		length int
		want   switchctl.Point
	}
	cases := []testCase{
		{name: "centered", length: 24, want: switchctl.Point{X: 960, Y: 471}},
		{name: "short uses default", rx: 32767, ry: 32767, length: 23, want: switchctl.DefaultPoint},
		{name: "top right", rx: 32767, ry: 32767, length: 60, want: switchctl.Point{X: 1920, Y: 0}},
		{name: "bottom left clamps", rx: -32768, ry: -32768, length: 60, want: switchctl.Point{X: 0, Y: 943}},
		{name: "half", rx: 16384, ry: 16384, length: 60, want: switchctl.Point{X: 1440, Y: 235}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, 60)
			binary.LittleEndian.PutUint16(buf[0x10:], uint16(tc.rx))
			binary.LittleEndian.PutUint16(buf[0x12:], uint16(tc.ry))
			assert.Equal(t, tc.want, switchctl.DecodePointer(buf[:tc.length]))
		})
	}
}

func TestTextValues(t *testing.T) {
	var f switchctl.Family
	require.NoError(t, f.UnmarshalText([]byte("NSO-GC")))
	assert.Equal(t, switchctl.NSOGameCubeController, f)
	require.NoError(t, f.UnmarshalText([]byte("dual-joycon")))
	assert.Equal(t, switchctl.DualJoyCon, f)
	assert.Error(t, f.UnmarshalText([]byte("wiimote")))

	b, err := switchctl.ProController.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "pro", string(b))
	_, err = switchctl.Family(42).MarshalText()
	assert.Error(t, err)

	var s switchctl.Side
	require.NoError(t, s.UnmarshalText([]byte("R")))
	assert.Equal(t, switchctl.Right, s)
	assert.Error(t, s.UnmarshalText([]byte("middle")))

	var o switchctl.Orientation
	require.NoError(t, o.UnmarshalText([]byte("sideways")))
	assert.Equal(t, switchctl.Sideways, o)
	assert.Equal(t, "upright", switchctl.Upright.String())
}
