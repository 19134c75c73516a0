// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// AppName is attached to every line written by the global logger.
const AppName = "newsrec"

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic, disabled.
	// Default: info
	Level string

	// Format is json or console.
	// Default: json
	Format string

	// Caller adds file:line to each line.
	Caller bool

	// Output defaults to os.Stderr.
	Output io.Writer

	// Process distinguishes the binaries sharing this package ("server", "cli").
	Process string

	// Version is the build version, omitted when empty.
	Version string
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // logging must work before Init is called
func init() {
	Init(DefaultConfig())
}

// Init replaces the global logger. It may be called again to reconfigure.
//
// The level is applied to the logger itself rather than zerolog's global
// level, so loggers created with NewTestLogger are never filtered.
func Init(cfg Config) {
	l := New(cfg)
	global.Store(&l)
}

// New builds a logger from cfg without touching the global one.
func New(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.ErrorFieldName = "error"
	zerolog.CallerFieldName = "caller"

	output := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(output).Level(ParseLevel(cfg.Level)).With().
		Timestamp().
		Str("app", AppName)
	if cfg.Process != "" {
		ctx = ctx.Str("process", cfg.Process)
	}
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// ParseLevel converts a level name to a zerolog.Level. Unknown names map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns a copy of the global logger, e.g. to hand to the engine.
func Logger() zerolog.Logger {
	return *global.Load()
}

// Debug starts a debug level message on the global logger.
func Debug() *zerolog.Event { return global.Load().Debug() }

// Info starts an info level message on the global logger.
//
//	logging.Info().Str("addr", addr).Msg("API service added")
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warning level message on the global logger.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error level message on the global logger.
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal starts a fatal level message. os.Exit(1) is called after the
// message is written.
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// NewTestLogger creates an unfiltered JSON logger writing to w.
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
