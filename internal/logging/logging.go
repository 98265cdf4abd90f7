// Package logging builds the zap logger used by the CLI and exposes it to the
// provisioning core as a logr.Logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures the logger.
type Options struct {
	Level  string
	Format Format
}

// DefaultOptions logs at info level, console on a terminal and JSON otherwise.
func DefaultOptions() Options {
	return Options{Level: "info", Format: FormatAuto}
}

// Validate checks level and format.
func (o Options) Validate() error {
	if _, err := zapcore.ParseLevel(o.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.Level, err)
	}
	switch o.Format {
	case FormatAuto, FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid log format %q: must be one of auto, console, json", o.Format)
	}
}

// New builds a logger writing to stderr.
func New(opts Options) (*zap.Logger, error) {
	return build(opts, zapcore.Lock(os.Stderr), isatty.IsTerminal(os.Stderr.Fd()))
}

// NewWithWriter builds a logger writing to w, treated as a non-terminal.
func NewWithWriter(opts Options, w io.Writer) (*zap.Logger, error) {
	return build(opts, zapcore.AddSync(w), false)
}

// Logr adapts a zap logger to logr. V(1) maps to zap's debug level.
func Logr(z *zap.Logger) logr.Logger {
	return zapr.NewLogger(z)
}

func build(opts Options, out zapcore.WriteSyncer, terminal bool) (*zap.Logger, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	level, _ := zapcore.ParseLevel(opts.Level)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	format := opts.Format
	if format == FormatAuto {
		format = FormatJSON
		if terminal {
			format = FormatConsole
		}
	}

	var enc zapcore.Encoder
	if format == FormatConsole {
		if terminal {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, out, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(out)), nil
}
