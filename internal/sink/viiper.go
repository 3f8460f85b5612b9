// Package sink delivers translated reports: to a virtual DualShock 4 on a
// VIIPER server, or to the log.
package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/joybridge/apiclient"
	"github.com/Alia5/joybridge/device/dualshock4"
)

// DeviceType is the VIIPER device type the sink attaches.
const DeviceType = "dualshock4"

type ViiperConfig struct {
	Addr  string
	BusID uint32
}

// Viiper streams reports to a dualshock4 device attached on a VIIPER bus.
type Viiper struct {
	client *apiclient.Client
	stream *apiclient.DeviceStream
	logger *slog.Logger

	mu       sync.Mutex
	feedback dualshock4.OutputState
	readDone chan struct{}
}

// OpenViiper attaches a dualshock4 device, creating the bus if needed, and
// starts reading its feedback frames.
func OpenViiper(ctx context.Context, cfg ViiperConfig, logger *slog.Logger) (*Viiper, error) {
	return openViiper(ctx, apiclient.New(cfg.Addr), cfg.BusID, logger)
}

func openViiper(ctx context.Context, c *apiclient.Client, busID uint32, logger *slog.Logger) (*Viiper, error) {
	bus, err := c.EnsureBus(ctx, busID)
	if err != nil {
		return nil, err
	}
	stream, resp, err := c.AddDeviceAndConnect(ctx, bus, DeviceType)
	if err != nil {
		if resp != nil {
			if devID, idErr := resp.DevID(); idErr == nil {
				_, _ = c.DeviceRemove(context.WithoutCancel(ctx), bus, devID)
			}
		}
		return nil, err
	}
	v := &Viiper{
		client:   c,
		stream:   stream,
		logger:   logger.With("bus", bus, "device", stream.DevID),
		readDone: make(chan struct{}),
	}
	v.logger.Info("Attached virtual controller", "type", DeviceType)
	go v.readFeedback()
	return v, nil
}

func (v *Viiper) readFeedback() {
	defer close(v.readDone)
	err := v.stream.ReadFrames(context.Background(), dualshock4.OutputStateSize, func(b []byte) error {
		var out dualshock4.OutputState
		if err := out.UnmarshalBinary(b); err != nil {
			return err
		}
		v.mu.Lock()
		v.feedback = out
		v.mu.Unlock()
		v.logger.Debug("Feedback",
			"rumbleSmall", out.RumbleSmall,
			"rumbleLarge", out.RumbleLarge,
			"led", fmt.Sprintf("#%02x%02x%02x", out.LedRed, out.LedGreen, out.LedBlue),
			"flashOn", out.FlashOn,
			"flashOff", out.FlashOff,
		)
		return nil
	})
	if err != nil {
		v.logger.Error("Feedback stream failed", "error", err)
	}
}

// Feedback returns the most recent rumble/LED frame sent by the device.
func (v *Viiper) Feedback() dualshock4.OutputState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.feedback
}

// Push writes r as one input frame.
func (v *Viiper) Push(ctx context.Context, r dualshock4.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := v.stream.WriteBinary(r.InputState()); err != nil {
		return fmt.Errorf("push report: %w", err)
	}
	return nil
}

// Close closes the stream and detaches the device.
func (v *Viiper) Close() error {
	closeErr := v.stream.Close()
	<-v.readDone

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, rmErr := v.client.DeviceRemove(ctx, v.stream.BusID, v.stream.DevID)
	if rmErr != nil {
		rmErr = fmt.Errorf("remove device %s: %w", v.stream.DevID, rmErr)
	} else {
		v.logger.Info("Detached virtual controller")
	}
	return errors.Join(closeErr, rmErr)
}
