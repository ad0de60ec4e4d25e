// Package logger holds the process-wide logger of the dnarecon command.
// Library packages take a *slog.Logger instead of using L.
package logger

import (
	"fmt"
	"io"
	"log/slog"
)

// L is the global logger instance. It discards all output until Init is called.
var L = slog.New(slog.DiscardHandler)

// Format selects the handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures the logger initialization.
type Options struct {
	Writer io.Writer  // Destination. Nil discards all output
	Level  slog.Level // Minimum log level
	Format Format     // Default: FormatText
}

// Init replaces L according to opts.
func Init(opts Options) error {
	if opts.Writer == nil {
		L = slog.New(slog.DiscardHandler)
		return nil
	}

	ho := &slog.HandlerOptions{Level: opts.Level}

	switch opts.Format {
	case "", FormatText:
		L = slog.New(slog.NewTextHandler(opts.Writer, ho))
	case FormatJSON:
		L = slog.New(slog.NewJSONHandler(opts.Writer, ho))
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	return nil
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
