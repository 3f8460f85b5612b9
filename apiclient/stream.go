package apiclient

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/Alia5/joybridge/apitypes"
)

var (
	ErrStreamClosed = errors.New("stream closed")
	errMockStream   = errors.New("device stream not supported with mock transport")
)

// DeviceStream is an open binary stream to one device. Input frames are
// written to it; feedback frames are read from it.
type DeviceStream struct {
	BusID uint32
	DevID string

	conn net.Conn

	mu     sync.Mutex
	closed bool
}

// OpenStream connects to the stream of device devID on busID.
func (c *Client) OpenStream(ctx context.Context, busID uint32, devID string) (*DeviceStream, error) {
	if c.transport.mock != nil {
		return nil, errMockStream
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if c.transport.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(c.transport.cfg.WriteTimeout))
	}
	if _, err := fmt.Fprintf(conn, "bus/%d/%s\n", busID, devID); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	_ = conn.SetWriteDeadline(time.Time{})
	return &DeviceStream{BusID: busID, DevID: devID, conn: conn}, nil
}

// AddDeviceAndConnect adds a device and opens its stream. The add response
// is returned even when connecting fails so the caller can remove the device.
func (c *Client) AddDeviceAndConnect(ctx context.Context, busID uint32, devType string) (*DeviceStream, *apitypes.DeviceAddResponse, error) {
	resp, err := c.DeviceAdd(ctx, busID, devType)
	if err != nil {
		return nil, nil, fmt.Errorf("add %s: %w", devType, err)
	}
	devID, err := resp.DevID()
	if err != nil {
		return nil, resp, err
	}
	s, err := c.OpenStream(ctx, busID, devID)
	if err != nil {
		return nil, resp, err
	}
	return s, resp, nil
}

func (s *DeviceStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *DeviceStream) Read(p []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrStreamClosed
	}
	return s.conn.Read(p)
}

func (s *DeviceStream) Write(p []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrStreamClosed
	}
	return s.conn.Write(p)
}

// WriteBinary marshals m and writes it as one frame.
func (s *DeviceStream) WriteBinary(m encoding.BinaryMarshaler) error {
	if s.isClosed() {
		return ErrStreamClosed
	}
	b, err := m.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	_, err = s.Write(b)
	return err
}

func (s *DeviceStream) SetReadDeadline(t time.Time) error  { return s.conn.SetReadDeadline(t) }
func (s *DeviceStream) SetWriteDeadline(t time.Time) error { return s.conn.SetWriteDeadline(t) }

// ReadFrames reads fixed-size frames and hands each to fn until the stream
// ends, fn fails or ctx is done. A stream closed locally returns nil.
func (s *DeviceStream) ReadFrames(ctx context.Context, size int, fn func([]byte) error) error {
	stop := context.AfterFunc(ctx, func() { _ = s.conn.SetReadDeadline(time.Now()) })
	defer stop()

	buf := make([]byte, size)
	for {
		if _, err := io.ReadFull(s.conn, buf); err != nil {
			if s.isClosed() || errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read frame: %w", err)
		}
		if err := fn(buf); err != nil {
			return err
		}
	}
}

// Close closes the stream. It is safe to call more than once.
func (s *DeviceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
