// Package bridge runs a player: it pulls raw notifications from one or two
// sources, translates them and pushes the resulting reports to a sink.
package bridge

import (
	"bytes"
	"context"
	"sync/atomic"

	"github.com/Alia5/joybridge/device/dualshock4"
)

// Source yields raw controller notifications. Next blocks until the next
// one arrives; io.EOF ends the stream.
type Source interface {
	Next(ctx context.Context) ([]byte, error)
}

// Sink consumes translated reports.
type Sink interface {
	Push(ctx context.Context, r dualshock4.Report) error
	Close() error
}

// LatestCell holds the most recent notification of one unit. Writers
// replace the slot; nothing is queued.
type LatestCell struct {
	p atomic.Pointer[[]byte]
}

// Store keeps a copy of b.
func (c *LatestCell) Store(b []byte) {
	cp := bytes.Clone(b)
	c.p.Store(&cp)
}

// Load returns the stored notification and whether one was ever stored.
// The returned slice must not be modified.
func (c *LatestCell) Load() ([]byte, bool) {
	p := c.p.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}
