package sink

import (
	"context"
	"log/slog"

	"github.com/Alia5/joybridge/device/dualshock4"
)

// Log writes a status line for every report that differs from the previous one.
type Log struct {
	logger *slog.Logger
	last   dualshock4.Report
	seen   bool
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Push(_ context.Context, r dualshock4.Report) error {
	if l.seen && r == l.last {
		return nil
	}
	l.last, l.seen = r, true
	l.logger.Info(r.String())
	return nil
}

func (l *Log) Close() error { return nil }
