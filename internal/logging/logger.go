// Package logging defines the structured-logging interface used across
// the project and its slog and zerolog implementations.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "cahier saved", "cahier_id", id, "communications", n)
type Logger interface {
	// Debug logs a diagnostic message.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backends accepted by New.
const (
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"
)

// Options selects and tunes a backend.
type Options struct {
	Backend string // slog (default) or zerolog
	Level   string // debug, info, warn, error
	Console bool   // human-readable output instead of JSON
	Output  io.Writer
}

// New builds a Logger from opts. Unknown backends fall back to slog.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	if opts.Backend == BackendZerolog {
		var w io.Writer = out
		if opts.Console {
			w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
		}
		return NewZerologLogger(zerolog.New(w).Level(zerologLevel(opts.Level)).With().Timestamp().Logger())
	}

	ho := &slog.HandlerOptions{Level: slogLevel(opts.Level)}
	var h slog.Handler = slog.NewJSONHandler(out, ho)
	if opts.Console {
		h = slog.NewTextHandler(out, ho)
	}
	return NewSlogLogger(slog.New(h))
}

func slogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func zerologLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop discards everything. Handy in tests.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
