package sink_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Alia5/joybridge/device/dualshock4"
	"github.com/Alia5/joybridge/internal/sink"
	th "github.com/Alia5/joybridge/internal/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestViiperLifecycle(t *testing.T) {
	srv := th.StartAPIServer(t, dualshock4.InputStateSize)
	ctx := context.Background()

	v, err := sink.OpenViiper(ctx, sink.ViiperConfig{Addr: srv.Addr, BusID: 3}, discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, srv.Devices(3))

	r := dualshock4.NewReport()
	r.Buttons |= dualshock4.ButtonCross
	r.ThumbLX = 0xFF
	r.Special = dualshock4.SpecialPS
	require.NoError(t, v.Push(ctx, r))

	want, err := r.InputState().MarshalBinary()
	require.NoError(t, err)
	select {
	case got := <-srv.Frames:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
	}

	fb := dualshock4.OutputState{RumbleSmall: 10, RumbleLarge: 20, LedRed: 1, LedGreen: 2, LedBlue: 3, FlashOn: 4, FlashOff: 5}
	b, _ := fb.MarshalBinary()
	srv.SendFeedback(b)
	assert.Eventually(t, func() bool { return v.Feedback() == fb }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, v.Close())
	assert.Empty(t, srv.Devices(3))

	cmds := srv.Commands()
	require.GreaterOrEqual(t, len(cmds), 4)
	assert.Equal(t, []string{"bus/list", "bus/create 3", "bus/3/add dualshock4"}, cmds[:3])
	assert.Equal(t, "bus/3/remove 1", cmds[len(cmds)-1])
}

func TestViiperExistingBus(t *testing.T) {
	srv := th.StartAPIServer(t, dualshock4.InputStateSize)
	srv.AddBus(1)

	v, err := sink.OpenViiper(context.Background(), sink.ViiperConfig{Addr: srv.Addr, BusID: 1}, discard())
	require.NoError(t, err)
	defer v.Close()

	assert.NotContains(t, srv.Commands(), "bus/create 1")
}

func TestViiperPushCanceled(t *testing.T) {
	srv := th.StartAPIServer(t, dualshock4.InputStateSize)
	v, err := sink.OpenViiper(context.Background(), sink.ViiperConfig{Addr: srv.Addr, BusID: 1}, discard())
	require.NoError(t, err)
	defer v.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, v.Push(ctx, dualshock4.NewReport()), context.Canceled)
}

func TestViiperUnreachable(t *testing.T) {
	_, err := sink.OpenViiper(context.Background(), sink.ViiperConfig{Addr: "127.0.0.1:1", BusID: 1}, discard())
	assert.Error(t, err)
}

func TestLogSinkSkipsDuplicates(t *testing.T) {
	var buf bytes.Buffer
	l := sink.NewLog(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	r := dualshock4.NewReport()
	require.NoError(t, l.Push(ctx, r))
	require.NoError(t, l.Push(ctx, r))
	r.Buttons |= dualshock4.ButtonCircle
	require.NoError(t, l.Push(ctx, r))
	require.NoError(t, l.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "buttons=none")
	assert.Contains(t, lines[1], "buttons=Circle")
}
