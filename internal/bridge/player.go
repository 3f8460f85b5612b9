package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Alia5/joybridge/device/dualshock4"
	"github.com/Alia5/joybridge/device/switchctl"
	"github.com/Alia5/joybridge/internal/log"
	"github.com/Alia5/joybridge/internal/mouse"
	"github.com/Alia5/joybridge/translate"
)

// DefaultCadence is the dual Joy-Con fusion interval (about 60 Hz).
const DefaultCadence = 16 * time.Millisecond

var (
	ErrNoSource         = errors.New("no input source")
	ErrNoSink           = errors.New("no sink")
	ErrMouseUnsupported = errors.New("mouse emulation needs a single Joy-Con")
)

type Config struct {
	Selection translate.Selection

	// Source feeds every family; for DualJoyCon it is the left unit.
	Source Source
	// Right is the right unit of a DualJoyCon pair.
	Right Source

	Sink  Sink
	Mouse *mouse.Emulator

	// Cadence of the dual fusion loop. Zero means DefaultCadence.
	Cadence time.Duration
}

// Player drives one controller from its source(s) to a sink.
type Player struct {
	id      string
	cfg     Config
	logger  *slog.Logger
	raw     log.RawLogger
	reports atomic.Uint64
}

func New(cfg Config, logger *slog.Logger, rawLogger log.RawLogger) (*Player, error) {
	if cfg.Source == nil {
		return nil, ErrNoSource
	}
	if cfg.Selection.Family == switchctl.DualJoyCon && cfg.Right == nil {
		return nil, fmt.Errorf("right unit: %w", ErrNoSource)
	}
	if cfg.Sink == nil {
		return nil, ErrNoSink
	}
	if cfg.Mouse != nil && cfg.Selection.Family != switchctl.SingleJoyCon {
		return nil, ErrMouseUnsupported
	}
	if cfg.Cadence <= 0 {
		cfg.Cadence = DefaultCadence
	}
	if rawLogger == nil {
		rawLogger = log.NewRaw(nil)
	}
	id := uuid.NewString()
	return &Player{
		id:     id,
		cfg:    cfg,
		logger: logger.With("player", id, "controller", cfg.Selection.String()),
		raw:    rawLogger,
	}, nil
}

func (p *Player) ID() string { return p.id }

// Reports returns how many reports were pushed so far.
func (p *Player) Reports() uint64 { return p.reports.Load() }

// Run pumps notifications until the sources end (nil) or ctx is done.
// A dual pair ends once both units have ended, with one last fused push.
func (p *Player) Run(ctx context.Context) error {
	p.logger.Info("Player started")
	var err error
	if p.cfg.Selection.Family == switchctl.DualJoyCon {
		err = p.runDual(ctx)
	} else {
		err = p.runSingle(ctx)
	}
	p.logger.Info("Player stopped", "reports", p.Reports())
	return err
}

func (p *Player) runSingle(ctx context.Context) error {
	tag := p.rawTag()
	for {
		buf, err := p.cfg.Source.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", tag, err)
		}
		p.raw.Log(tag, buf)
		if err := p.emit(ctx, p.cfg.Selection.Translate(buf, nil)); err != nil {
			return err
		}
	}
}

func (p *Player) runDual(ctx context.Context) error {
	var left, right LatestCell
	g, gctx := errgroup.WithContext(ctx)

	var readers sync.WaitGroup
	readers.Add(2)
	reader := func(src Source, side switchctl.Side, cell *LatestCell) func() error {
		return func() error {
			defer readers.Done()
			return p.read(gctx, src, side, cell)
		}
	}
	g.Go(reader(p.cfg.Source, switchctl.Left, &left))
	g.Go(reader(p.cfg.Right, switchctl.Right, &right))

	ended := make(chan struct{})
	go func() {
		readers.Wait()
		close(ended)
	}()

	g.Go(func() error {
		t := time.NewTicker(p.cfg.Cadence)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ended:
				return p.fuse(gctx, &left, &right)
			case <-t.C:
				if err := p.fuse(gctx, &left, &right); err != nil {
					return err
				}
			}
		}
	})
	return g.Wait()
}

// read stores notifications until src ends. An ended side keeps its last
// notification in cell.
func (p *Player) read(ctx context.Context, src Source, side switchctl.Side, cell *LatestCell) error {
	tag := side.String()
	for {
		buf, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			p.logger.Debug("Input ended", "side", tag)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", tag, err)
		}
		p.raw.Log(tag, buf)
		cell.Store(buf)
	}
}

// fuse pushes one fused report. It does nothing until both units have
// reported at least once.
func (p *Player) fuse(ctx context.Context, left, right *LatestCell) error {
	lb, lok := left.Load()
	rb, rok := right.Load()
	if !lok || !rok {
		return nil
	}
	return p.emit(ctx, translate.Dual(lb, rb))
}

func (p *Player) emit(ctx context.Context, r dualshock4.Report) error {
	if err := p.cfg.Sink.Push(ctx, r); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	p.reports.Add(1)
	if p.cfg.Mouse != nil {
		if err := p.cfg.Mouse.Handle(r); err != nil {
			p.logger.Warn("Mouse injection failed", "error", err)
		}
	}
	return nil
}

func (p *Player) rawTag() string {
	if p.cfg.Selection.Family == switchctl.SingleJoyCon {
		return p.cfg.Selection.Side.String()
	}
	return p.cfg.Selection.Family.String()
}
