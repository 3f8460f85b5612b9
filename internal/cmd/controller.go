package cmd

import (
	"context"
	"io"
	"os"

	"github.com/muesli/cancelreader"

	"github.com/Alia5/joybridge/device/switchctl"
	"github.com/Alia5/joybridge/translate"
)

// Controller holds the flags that select the translation.
type Controller struct {
	Family      switchctl.Family      `help:"Controller family: single-joycon, dual-joycon, pro, nso-gc" default:"pro" env:"JOYBRIDGE_FAMILY"`
	Side        switchctl.Side        `help:"Joy-Con side for single-joycon: left, right" default:"left" env:"JOYBRIDGE_SIDE"`
	Orientation switchctl.Orientation `help:"Joy-Con grip for single-joycon: upright, sideways" default:"upright" env:"JOYBRIDGE_ORIENTATION"`
}

func (c Controller) Selection() translate.Selection {
	return translate.Selection{Family: c.Family, Side: c.Side, Orientation: c.Orientation}
}

type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }

func isStdin(path string) bool { return path == "" || path == "-" }

// stdinReader unblocks a pending stdin read once its context is done.
type stdinReader struct {
	cancelreader.CancelReader
	stop func() bool
}

func (r stdinReader) Close() error {
	r.stop()
	r.Cancel()
	return r.CancelReader.Close()
}

// openCapture opens a capture file; "-" and "" read stdin.
func openCapture(ctx context.Context, path string, stdin io.Reader) (io.ReadCloser, error) {
	if !isStdin(path) {
		return os.Open(path)
	}
	cr, err := cancelreader.NewReader(stdin)
	if err != nil {
		// Regular files redirected to stdin cannot be polled.
		return nopCloser{stdin}, nil
	}
	stop := context.AfterFunc(ctx, func() { cr.Cancel() })
	return stdinReader{CancelReader: cr, stop: stop}, nil
}
