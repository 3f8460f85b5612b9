// Package mouse turns translated single Joy-Con reports into pointer events.
//
// Trigger, shoulder and stick click of the unit's side drive the left,
// right and middle buttons. The emulated touch point moves the cursor and
// the left stick's vertical axis scrolls.
package mouse

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/joybridge/device/dualshock4"
	"github.com/Alia5/joybridge/device/switchctl"
)

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	}
	return fmt.Sprintf("Button(%d)", int(b))
}

type EventKind int

const (
	ButtonDown EventKind = iota
	ButtonUp
	Move
	Wheel
)

func (k EventKind) String() string {
	switch k {
	case ButtonDown:
		return "down"
	case ButtonUp:
		return "up"
	case Move:
		return "move"
	case Wheel:
		return "wheel"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one synthetic pointer action.
type Event struct {
	Kind   EventKind
	Button Button
	DX, DY int32
	Delta  int32
}

// Injector delivers events to whatever consumes them.
type Injector interface {
	Inject(events []Event) error
}

// State carries what the previous step observed. The zero value is ready.
type State struct {
	pressed [3]bool
	prevX   uint16
	prevY   uint16
	hasPrev bool
}

// Step compares r to the previous report and returns the resulting events.
// The first step only records the cursor position.
func (s *State) Step(r dualshock4.Report, side switchctl.Side, sensitivity float64) []Event {
	masks := [3]uint16{
		ButtonLeft:   dualshock4.ButtonTriggerLeft,
		ButtonRight:  dualshock4.ButtonShoulderLeft,
		ButtonMiddle: dualshock4.ButtonThumbLeft,
	}
	if side == switchctl.Right {
		masks = [3]uint16{
			ButtonLeft:   dualshock4.ButtonTriggerRight,
			ButtonRight:  dualshock4.ButtonShoulderRight,
			ButtonMiddle: dualshock4.ButtonThumbRight,
		}
	}

	var events []Event
	for b, m := range masks {
		down := r.Buttons&m != 0
		if down == s.pressed[b] {
			continue
		}
		s.pressed[b] = down
		kind := ButtonUp
		if down {
			kind = ButtonDown
		}
		events = append(events, Event{Kind: kind, Button: Button(b)})
	}

	x, y := dualshock4.UnpackTouch(r.CurrentTouch.TouchData1)
	if s.hasPrev {
		events = append(events, Event{
			Kind: Move,
			DX:   int32((float64(x) - float64(s.prevX)) * sensitivity),
			DY:   int32((float64(s.prevY) - float64(y)) * sensitivity),
		})
	}
	s.prevX, s.prevY, s.hasPrev = x, y, true

	events = append(events, Event{Kind: Wheel, Delta: int32(dualshock4.StickCenter) - int32(r.ThumbLY)})
	return events
}

// Emulator binds a State to an Injector for one Joy-Con.
type Emulator struct {
	state       State
	side        switchctl.Side
	sensitivity float64
	injector    Injector
}

func NewEmulator(side switchctl.Side, sensitivity float64, injector Injector) *Emulator {
	return &Emulator{side: side, sensitivity: sensitivity, injector: injector}
}

// Handle runs one step and injects the produced events.
func (e *Emulator) Handle(r dualshock4.Report) error {
	return e.injector.Inject(e.state.Step(r, e.side, e.sensitivity))
}

// LogInjector writes events to a logger at debug level.
type LogInjector struct {
	Logger *slog.Logger
}

func (l LogInjector) Inject(events []Event) error {
	for _, ev := range events {
		switch ev.Kind {
		case Move:
			l.Logger.Debug("mouse move", "dx", ev.DX, "dy", ev.DY)
		case Wheel:
			if ev.Delta != 0 {
				l.Logger.Debug("mouse wheel", "delta", ev.Delta)
			}
		default:
			l.Logger.Debug("mouse button", "button", ev.Button, "action", ev.Kind)
		}
	}
	return nil
}
