// Package config defines the CLI structure and configuration for joybridge.
package config

import (
	"github.com/Alia5/joybridge/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"JOYBRIDGE_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"JOYBRIDGE_LOG_FILE"`
	RawFile string `help:"Raw notification log file path, replayable with --input (default: none)" env:"JOYBRIDGE_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Config string `help:"Configuration file (JSON, YAML or TOML)" env:"JOYBRIDGE_CONFIG"`

	Bridge cmd.Bridge `cmd:"" help:"Translate captured Switch controller input into a virtual DualShock 4"`
	Decode cmd.Decode `cmd:"" help:"Print the DualShock 4 reports a capture translates to"`
}
