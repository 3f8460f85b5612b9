package cmd

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/joybridge/device/switchctl"
	"github.com/Alia5/joybridge/internal/bridge"
	"github.com/Alia5/joybridge/internal/capture"
	"github.com/Alia5/joybridge/internal/log"
	"github.com/Alia5/joybridge/internal/mouse"
	"github.com/Alia5/joybridge/internal/sink"
)

type Viiper struct {
	Addr string `help:"VIIPER API server address (host:port); empty logs reports instead" env:"JOYBRIDGE_VIIPER_ADDR"`
	Bus  uint32 `help:"Bus to attach the virtual controller to (created if missing)" default:"1" env:"JOYBRIDGE_VIIPER_BUS"`
}

type Mouse struct {
	Enabled     bool    `help:"Drive a pointer from a single Joy-Con" env:"JOYBRIDGE_MOUSE_ENABLED"`
	Sensitivity float64 `help:"Pointer movement multiplier" default:"1.0" env:"JOYBRIDGE_MOUSE_SENSITIVITY"`
}

// Bridge replays captured notifications through the translator into a sink.
type Bridge struct {
	Controller `embed:""`

	Input string `help:"Capture file ('-' for stdin); dual-joycon reads its left/right tagged lines" default:"-" env:"JOYBRIDGE_INPUT"`
	Left  string `help:"Capture file of the left Joy-Con (dual-joycon)" env:"JOYBRIDGE_LEFT"`
	Right string `help:"Capture file of the right Joy-Con (dual-joycon)" env:"JOYBRIDGE_RIGHT"`

	Cadence        time.Duration `help:"Dual Joy-Con fusion interval" default:"16ms" env:"JOYBRIDGE_CADENCE"`
	ReplayInterval time.Duration `help:"Delay between replayed notifications" default:"0s" env:"JOYBRIDGE_REPLAY_INTERVAL"`

	Viiper Viiper `embed:"" prefix:"viiper."`
	Mouse  Mouse  `embed:"" prefix:"mouse."`

	stdin io.Reader `kong:"-"`
}

// Run is called by Kong when the bridge command is executed.
func (b *Bridge) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := b.run(ctx, logger, rawLogger)
	if errors.Is(err, context.Canceled) {
		logger.Info("Shutting down")
		return nil
	}
	return err
}

func (b *Bridge) run(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	stdin := b.stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	cfg := bridge.Config{Selection: b.Selection(), Cadence: b.Cadence}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	source := func(path, tag string) (bridge.Source, error) {
		rc, err := openCapture(ctx, path, stdin)
		if err != nil {
			return nil, fmt.Errorf("open capture: %w", err)
		}
		src := capture.NewSource(rc, tag, b.ReplayInterval)
		closers = append(closers, src, rc)
		return src, nil
	}

	var err error
	if b.Family == switchctl.DualJoyCon {
		left, right := cmp.Or(b.Left, b.Input), cmp.Or(b.Right, b.Input)
		if isStdin(left) && isStdin(right) {
			return errors.New("dual-joycon cannot read both units from stdin; set --left or --right")
		}
		if cfg.Source, err = source(left, switchctl.Left.String()); err != nil {
			return err
		}
		if cfg.Right, err = source(right, switchctl.Right.String()); err != nil {
			return err
		}
	} else if cfg.Source, err = source(b.Input, ""); err != nil {
		return err
	}

	if b.Viiper.Addr != "" {
		v, err := sink.OpenViiper(ctx, sink.ViiperConfig{Addr: b.Viiper.Addr, BusID: b.Viiper.Bus}, logger)
		if err != nil {
			return fmt.Errorf("open VIIPER device: %w", err)
		}
		cfg.Sink = v
	} else {
		cfg.Sink = sink.NewLog(logger)
	}
	defer func() {
		if err := cfg.Sink.Close(); err != nil {
			logger.Error("Failed to close sink", "error", err)
		}
	}()

	if b.Mouse.Enabled {
		cfg.Mouse = mouse.NewEmulator(b.Side, b.Mouse.Sensitivity, mouse.LogInjector{Logger: logger})
	}

	p, err := bridge.New(cfg, logger, rawLogger)
	if err != nil {
		return err
	}
	return p.Run(ctx)
}
