// Package capture replays recorded controller notifications.
//
// Lines are either the raw log format ("<tag>: 0A 0B ...") or bare hex
// bytes. Blank lines and lines starting with '#' are skipped.
package capture

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var ErrMalformedLine = errors.New("malformed capture line")

// maxLine bounds a single capture line; notifications are far smaller.
const maxLine = 64 * 1024

// ParseLine splits a capture line into its tag (empty for bare hex) and bytes.
func ParseLine(line string) (tag string, data []byte, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, ErrMalformedLine
	}
	if t, ok := strings.CutSuffix(fields[0], ":"); ok {
		tag = t
		fields = fields[1:]
	}
	data, err = hex.DecodeString(strings.Join(fields, ""))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	return tag, data, nil
}

// Source reads notifications from a capture stream. It implements the
// bridge source contract: Next blocks until the next notification and
// returns io.EOF when the stream is exhausted.
//
// The stream is scanned on a background goroutine so a pending read never
// holds up cancellation. Close stops that goroutine once its current read
// returns.
type Source struct {
	sc       *bufio.Scanner
	tag      string
	interval time.Duration
	line     int
	started  bool

	startOnce sync.Once
	lines     chan scanned
	done      chan struct{}
	closeOnce sync.Once
}

type scanned struct {
	text string
	err  error
}

// NewSource reads from r. A non-empty tag skips lines carrying a different
// tag (untagged lines always pass). interval paces successive notifications.
func NewSource(r io.Reader, tag string, interval time.Duration) *Source {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	return &Source{
		sc:       sc,
		tag:      tag,
		interval: interval,
		lines:    make(chan scanned),
		done:     make(chan struct{}),
	}
}

// Close stops the background scanner. The underlying reader is not closed.
func (s *Source) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *Source) scan() {
	defer close(s.lines)
	send := func(v scanned) bool {
		select {
		case s.lines <- v:
			return true
		case <-s.done:
			return false
		}
	}
	for s.sc.Scan() {
		if !send(scanned{text: s.sc.Text()}) {
			return
		}
	}
	if err := s.sc.Err(); err != nil {
		send(scanned{err: err})
	}
}

// Record is one notification read from a capture.
type Record struct {
	Line int
	Tag  string
	Data []byte
}

func (s *Source) Next(ctx context.Context) ([]byte, error) {
	rec, err := s.NextRecord(ctx)
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

// NextRecord is Next with the line number and tag kept.
func (s *Source) NextRecord(ctx context.Context) (Record, error) {
	s.startOnce.Do(func() { go s.scan() })
	for {
		var next scanned
		var ok bool
		select {
		case <-ctx.Done():
			return Record{}, ctx.Err()
		case next, ok = <-s.lines:
		}
		if !ok {
			return Record{}, io.EOF
		}
		if next.err != nil {
			return Record{}, next.err
		}
		s.line++
		text := strings.TrimSpace(next.text)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		tag, data, err := ParseLine(text)
		if err != nil {
			return Record{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		if s.tag != "" && tag != "" && tag != s.tag {
			continue
		}
		if err := s.wait(ctx); err != nil {
			return Record{}, err
		}
		return Record{Line: s.line, Tag: tag, Data: data}, nil
	}
}

func (s *Source) wait(ctx context.Context) error {
	if !s.started || s.interval <= 0 {
		s.started = true
		return ctx.Err()
	}
	t := time.NewTimer(s.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
