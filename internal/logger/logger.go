// Package logger wraps zerolog with the small surface pgscope needs:
// levelled structured logging, child loggers with bound fields, and
// context plumbing so HTTP middleware and the database layer share one
// request-scoped logger.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output io.Writer
}

// DefaultConfig returns production-ready defaults: info-level JSON to stdout.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: os.Stdout,
	}
}

// New creates a Logger from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var zlog zerolog.Logger
	if cfg.Format == "console" {
		// Human-readable output for local development.
		cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		zlog = zerolog.New(cw).With().Timestamp().Logger()
	} else {
		zlog = zerolog.New(out).With().Timestamp().Logger()
	}

	return &Logger{zlog: zlog.Level(parseLevel(cfg.Level))}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithContext returns a copy of ctx carrying this logger.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.zlog.WithContext(ctx)
}

// FromContext retrieves the logger stored in ctx, or a default logger
// if none is present.
func FromContext(ctx context.Context) *Logger {
	zlog := zerolog.Ctx(ctx)
	if zlog.GetLevel() == zerolog.Disabled {
		return New(nil)
	}
	return &Logger{zlog: *zlog}
}

// With returns a child logger with the given field bound to every event.
func (l *Logger) With(key, val string) *Logger {
	return &Logger{zlog: l.zlog.With().Str(key, val).Logger()}
}

// Debug logs a debug-level event with optional key/value string pairs.
func (l *Logger) Debug(msg string, kv ...string) {
	emit(l.zlog.Debug(), msg, kv)
}

// Info logs an info-level event with optional key/value string pairs.
func (l *Logger) Info(msg string, kv ...string) {
	emit(l.zlog.Info(), msg, kv)
}

// Warn logs a warn-level event with optional key/value string pairs.
func (l *Logger) Warn(msg string, kv ...string) {
	emit(l.zlog.Warn(), msg, kv)
}

// Error logs an error-level event with the error attached.
func (l *Logger) Error(msg string, err error, kv ...string) {
	emit(l.zlog.Error().Err(err), msg, kv)
}

func emit(ev *zerolog.Event, msg string, kv []string) {
	for i := 0; i+1 < len(kv); i += 2 {
		ev = ev.Str(kv[i], kv[i+1])
	}
	ev.Msg(msg)
}
