package log

import (
	"fmt"
	"io"
	"sync"
)

// RawLogger records raw controller notifications, one line each:
//
//	<tag>: <hex bytes separated by spaces>
//
// The format is read back by the capture package.
type RawLogger interface {
	Log(tag string, data []byte)
}

// NewRaw returns a RawLogger writing to w. A nil writer discards everything.
func NewRaw(w io.Writer) RawLogger {
	if w == nil {
		return noopRaw{}
	}
	return &rawLogger{w: w}
}

// FormatRaw renders a notification in RawLogger's line format (no newline).
func FormatRaw(tag string, data []byte) string {
	if len(data) == 0 {
		return tag + ":"
	}
	return fmt.Sprintf("%s: % X", tag, data)
}

type rawLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *rawLogger) Log(tag string, data []byte) {
	line := FormatRaw(tag, data) + "\n"
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, line)
}

type noopRaw struct{}

func (noopRaw) Log(string, []byte) {}
