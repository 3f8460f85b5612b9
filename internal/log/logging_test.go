package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseLevel(tc.in), tc.in)
	}
}

func TestColorHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &colorHandler{w: &buf, level: LevelTrace}
	logger := slog.New(h).With("player", "abc").WithGroup("report").With("seq", 1)

	logger.Log(context.Background(), LevelTrace, "pushed", "dpad", "N")

	out := buf.String()
	assert.Contains(t, out, "TRACE")
	assert.Contains(t, out, "pushed")
	assert.Contains(t, out, "player=abc")
	assert.Contains(t, out, "report.seq=1")
	assert.Contains(t, out, "report.dpad=N")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestColorHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&colorHandler{w: &buf, level: slog.LevelInfo})
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLevelFilterAndMulti(t *testing.T) {
	var low, high bytes.Buffer
	h := MultiHandler{hs: []slog.Handler{
		LevelFilter{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: slog.NewTextHandler(&low, nil)},
		LevelFilter{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: slog.NewTextHandler(&high, nil)},
	}}
	logger := slog.New(h)
	logger.Info("info line")
	logger.Error("error line")

	assert.Contains(t, low.String(), "info line")
	assert.NotContains(t, low.String(), "error line")
	assert.Contains(t, high.String(), "error line")
	assert.NotContains(t, high.String(), "info line")
}

func TestMultiHandlerSkipsDisabled(t *testing.T) {
	var info, debug bytes.Buffer
	logger := slog.New(MultiHandler{hs: []slog.Handler{
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}})

	logger.Debug("feedback frame")
	assert.Empty(t, info.String())
	assert.Contains(t, debug.String(), "feedback frame")

	logger.Info("Player started")
	assert.Contains(t, info.String(), "Player started")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestMultiHandlerJoinsErrors(t *testing.T) {
	var ok bytes.Buffer
	h := MultiHandler{hs: []slog.Handler{
		slog.NewTextHandler(failingWriter{}, nil),
		slog.NewTextHandler(&ok, nil),
	}}
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "pushed", 0)
	err := h.Handle(context.Background(), r)
	assert.ErrorContains(t, err, "disk full")
	assert.Contains(t, ok.String(), "pushed")
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	raw := NewRaw(&buf)
	raw.Log("left", []byte{0x0A, 0xFF, 0x00})
	raw.Log("right", nil)
	assert.Equal(t, "left: 0A FF 00\nright:\n", buf.String())

	NewRaw(nil).Log("ignored", []byte{1})
}

func TestRawLoggerConcurrent(t *testing.T) {
	var buf bytes.Buffer
	raw := NewRaw(&buf)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw.Log("p", []byte{byte(i)})
		}()
	}
	wg.Wait()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "p: "), l)
	}
}

func TestSetupLoggerFile(t *testing.T) {
	path := t.TempDir() + "/out.log"
	logger, closers, err := SetupLogger("debug", path)
	require.NoError(t, err)
	logger.Debug("to file", "at", time.Duration(0))
	for _, c := range closers {
		require.NoError(t, c.Close())
	}
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "to file")
	slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}
