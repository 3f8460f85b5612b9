package config_test

import (
	"testing"
	"time"

	"github.com/Alia5/joybridge/device/switchctl"
	"github.com/Alia5/joybridge/internal/config"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args []string, opts ...kong.Option) (*config.CLI, *kong.Context) {
	t.Helper()
	var cli config.CLI
	parser, err := kong.New(&cli, append([]kong.Option{kong.Name("joybridge")}, opts...)...)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestBridgeDefaults(t *testing.T) {
	cli, ctx := parse(t, []string{"bridge"})
	assert.Equal(t, "bridge", ctx.Command())
	assert.Equal(t, "info", cli.Log.Level)
	assert.Equal(t, switchctl.ProController, cli.Bridge.Family)
	assert.Equal(t, switchctl.Left, cli.Bridge.Side)
	assert.Equal(t, switchctl.Upright, cli.Bridge.Orientation)
	assert.Equal(t, 16*time.Millisecond, cli.Bridge.Cadence)
	assert.Equal(t, "-", cli.Bridge.Input)
	assert.Equal(t, uint32(1), cli.Bridge.Viiper.Bus)
	assert.Empty(t, cli.Bridge.Viiper.Addr)
	assert.False(t, cli.Bridge.Mouse.Enabled)
	assert.InDelta(t, 1.0, cli.Bridge.Mouse.Sensitivity, 1e-9)
}

func TestBridgeFlags(t *testing.T) {
	cli, _ := parse(t, []string{
		"--log.level=debug",
		"bridge",
		"--family=single-joycon", "--side=right", "--orientation=sideways",
		"--cadence=8ms", "--replay-interval=5ms",
		"--viiper.addr=localhost:3242", "--viiper.bus=4",
		"--mouse.enabled", "--mouse.sensitivity=2.5",
		"--input=capture.log",
	})
	b := cli.Bridge
	assert.Equal(t, "debug", cli.Log.Level)
	assert.Equal(t, switchctl.SingleJoyCon, b.Family)
	assert.Equal(t, switchctl.Right, b.Side)
	assert.Equal(t, switchctl.Sideways, b.Orientation)
	assert.Equal(t, 8*time.Millisecond, b.Cadence)
	assert.Equal(t, 5*time.Millisecond, b.ReplayInterval)
	assert.Equal(t, "localhost:3242", b.Viiper.Addr)
	assert.Equal(t, uint32(4), b.Viiper.Bus)
	assert.True(t, b.Mouse.Enabled)
	assert.InDelta(t, 2.5, b.Mouse.Sensitivity, 1e-9)
	assert.Equal(t, "capture.log", b.Input)
}

func TestBridgeRejectsUnknownFamily(t *testing.T) {
	var cli config.CLI
	parser, err := kong.New(&cli)
	require.NoError(t, err)
	_, err = parser.Parse([]string{"bridge", "--family=snes"})
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JOYBRIDGE_FAMILY", "dual-joycon")
	t.Setenv("JOYBRIDGE_VIIPER_ADDR", "10.0.0.2:3242")
	t.Setenv("JOYBRIDGE_LOG_LEVEL", "warn")
	cli, _ := parse(t, []string{"bridge"})
	assert.Equal(t, switchctl.DualJoyCon, cli.Bridge.Family)
	assert.Equal(t, "10.0.0.2:3242", cli.Bridge.Viiper.Addr)
	assert.Equal(t, "warn", cli.Log.Level)
}

func TestDecodeArgs(t *testing.T) {
	cli, ctx := parse(t, []string{"decode", "--format=yaml", "--family=nso-gc", "capture.log"})
	assert.Contains(t, ctx.Command(), "decode")
	assert.Equal(t, "yaml", cli.Decode.Format)
	assert.Equal(t, switchctl.NSOGameCubeController, cli.Decode.Family)
	assert.Equal(t, "capture.log", cli.Decode.Input)

	var bad config.CLI
	parser, err := kong.New(&bad)
	require.NoError(t, err)
	_, err = parser.Parse([]string{"decode", "--format=xml"})
	assert.Error(t, err)
}
