package cmd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/Alia5/joybridge/device/dualshock4"
	"github.com/Alia5/joybridge/device/switchctl"
	"github.com/Alia5/joybridge/internal/capture"
)

// Decode prints the reports a capture translates to.
type Decode struct {
	Controller `embed:""`

	Format string `help:"Output format: text, json, yaml, toml" enum:"text,json,yaml,toml" default:"text" env:"JOYBRIDGE_DECODE_FORMAT"`
	Input  string `arg:"" optional:"" help:"Capture file ('-' or omitted for stdin)"`

	stdin  io.Reader `kong:"-"`
	stdout io.Writer `kong:"-"`
}

type touchView struct {
	ID uint8  `json:"id" yaml:"id" toml:"id"`
	X  uint16 `json:"x" yaml:"x" toml:"x"`
	Y  uint16 `json:"y" yaml:"y" toml:"y"`
}

type reportView struct {
	Line    int         `json:"line" yaml:"line" toml:"line"`
	Tag     string      `json:"tag,omitempty" yaml:"tag,omitempty" toml:"tag,omitempty"`
	Buttons []string    `json:"buttons" yaml:"buttons" toml:"buttons"`
	DPad    string      `json:"dpad" yaml:"dpad" toml:"dpad"`
	LX      uint8       `json:"lx" yaml:"lx" toml:"lx"`
	LY      uint8       `json:"ly" yaml:"ly" toml:"ly"`
	RX      uint8       `json:"rx" yaml:"rx" toml:"rx"`
	RY      uint8       `json:"ry" yaml:"ry" toml:"ry"`
	L2      uint8       `json:"l2" yaml:"l2" toml:"l2"`
	R2      uint8       `json:"r2" yaml:"r2" toml:"r2"`
	Gyro    []int16     `json:"gyro" yaml:"gyro,flow" toml:"gyro"`
	Accel   []int16     `json:"accel" yaml:"accel,flow" toml:"accel"`
	Touches []touchView `json:"touches,omitempty" yaml:"touches,omitempty" toml:"touches,omitempty"`
	Report  string      `json:"report" yaml:"report" toml:"report"`
}

// decoded is one translated report and the capture record that produced it.
type decoded struct {
	rec    capture.Record
	report dualshock4.Report
}

func newReportView(d decoded) reportView {
	rec, r := d.rec, d.report
	v := reportView{
		Line:    rec.Line,
		Tag:     rec.Tag,
		Buttons: r.PressedNames(),
		DPad:    r.DPad().String(),
		LX:      r.ThumbLX,
		LY:      r.ThumbLY,
		RX:      r.ThumbRX,
		RY:      r.ThumbRY,
		L2:      r.TriggerL,
		R2:      r.TriggerR,
		Gyro:    []int16{r.GyroX, r.GyroY, r.GyroZ},
		Accel:   []int16{r.AccelX, r.AccelY, r.AccelZ},
	}
	if v.Buttons == nil {
		v.Buttons = []string{}
	}
	if r.TouchPacketsN > 0 {
		for _, p := range []dualshock4.TouchPoint{r.CurrentTouch.Point1(), r.CurrentTouch.Point2()} {
			if p.Active {
				v.Touches = append(v.Touches, touchView{ID: p.ID, X: p.X, Y: p.Y})
			}
		}
	}
	b, _ := r.MarshalBinary()
	v.Report = hex.EncodeToString(b)
	return v
}

// Run is called by Kong when the decode command is executed.
func (d *Decode) Run(logger *slog.Logger) error {
	stdin, stdout := d.stdin, d.stdout
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	ctx := context.Background()
	rc, err := openCapture(ctx, d.Input, stdin)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer rc.Close()

	src := capture.NewSource(rc, "", 0)
	defer src.Close()
	reports, err := d.decode(ctx, src)
	if err != nil {
		return err
	}
	logger.Debug("Decoded capture", "reports", len(reports), "controller", d.Selection().String())
	return writeReports(stdout, d.Format, reports)
}

func (d *Decode) decode(ctx context.Context, src *capture.Source) ([]decoded, error) {
	sel := d.Selection()
	var out []decoded
	var left, right []byte
	for {
		rec, err := src.NextRecord(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if sel.Family != switchctl.DualJoyCon {
			out = append(out, decoded{rec, sel.Translate(rec.Data, nil)})
			continue
		}
		switch rec.Tag {
		case switchctl.Left.String():
			left = rec.Data
		case switchctl.Right.String():
			right = rec.Data
		default:
			return nil, fmt.Errorf("line %d: dual-joycon lines must be tagged left or right", rec.Line)
		}
		if left == nil || right == nil {
			continue
		}
		out = append(out, decoded{rec, sel.Translate(left, right)})
	}
}

func writeReports(w io.Writer, format string, reports []decoded) error {
	if format == "text" || format == "" {
		for _, d := range reports {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", d.rec.Line, d.report); err != nil {
				return err
			}
		}
		return nil
	}

	views := make([]reportView, len(reports))
	for i, d := range reports {
		views[i] = newReportView(d)
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		for _, v := range views {
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		b, err := toml.Marshal(struct {
			Reports []reportView `toml:"reports"`
		}{views})
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}
