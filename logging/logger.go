// Package logging creates the harness-level logger.
//
// Per-test debug output is captured by the framework package; this logger is for messages
// about the harness itself, and for --debug-all, where every test's debug output is also
// streamed as it happens.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/erp-core/e2e-api-tests/config"
)

// New returns a zerolog logger writing to out in the given format. Unknown levels fall back
// to info.
func New(out io.Writer, cfg config.LogConfig) zerolog.Logger {
	if cfg.Format != config.LogFormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05.000",
			NoColor:    !isTerminal(out),
		}
	}
	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Printer adapts a zerolog logger to the Printf-style interface used by the framework,
// logging every message at debug level with a fixed component field.
type Printer struct {
	logger zerolog.Logger
}

// NewPrinter returns a Printer that tags messages with component.
func NewPrinter(logger zerolog.Logger, component string) *Printer {
	return &Printer{logger: logger.With().Str("component", component).Logger()}
}

func (p *Printer) Printf(message string, args ...interface{}) {
	p.logger.Debug().Msgf(message, args...)
}

// Elapsed is a small helper for timing harness phases in log fields.
func Elapsed(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
