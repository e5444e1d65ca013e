// Package logging provides structured logging for numfield using slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Levels used by the CLI.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	defaultLogger *slog.Logger
	defaultOnce   sync.Once
)

// Options configures New.
type Options struct {
	Level slog.Level
	// Output defaults to os.Stderr.
	Output io.Writer
	// JSON selects the JSON handler instead of text.
	JSON      bool
	AddSource bool
}

// DefaultOptions returns options suitable for CLI usage. Field transitions
// log at debug level, so the CLI is quiet unless --verbose or --debug is set.
func DefaultOptions() Options {
	return Options{Level: LevelWarn, Output: os.Stderr}
}

// New creates a logger writing to opts.Output.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, ho))
	}
	return slog.New(slog.NewTextHandler(out, ho))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: LevelError + 1}))
}

// Default returns the default logger, creating it if necessary.
func Default() *slog.Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(DefaultOptions())
	})
	return defaultLogger
}

// SetDefault replaces the default logger and installs it as slog's default.
func SetDefault(logger *slog.Logger) {
	defaultOnce.Do(func() {})
	defaultLogger = logger
	slog.SetDefault(logger)
}

// WithContext returns the context logger, or the default one.
func WithContext(ctx context.Context) *slog.Logger {
	if l := FromContext(ctx); l != nil {
		return l
	}
	return Default()
}

// Context key for logger storage.
type loggerKey struct{}

// NewContext returns a context with the logger attached.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves the logger from context, or nil if not present.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return nil
}

// Common attribute keys for consistent logging across the codebase.
const (
	// KeyField identifies a field session.
	KeyField = "field"
	// KeyTrigger names what caused a commit (debounce, instant, blur).
	KeyTrigger = "trigger"
	// KeyValue is an unformatted numeric value.
	KeyValue = "value"
	// KeyBuffer is the raw editing buffer.
	KeyBuffer = "buffer"
	// KeyDisplay is the string currently shown in the field.
	KeyDisplay = "display"
	// KeyPath identifies a file path.
	KeyPath = "path"
	// KeyError attaches an error value.
	KeyError = "error"
	// KeyDelay records a timer delay.
	KeyDelay = "delay"
)

// Field returns a slog attribute for a field session id.
func Field(id string) slog.Attr {
	return slog.String(KeyField, id)
}

// Trigger returns a slog attribute for a commit trigger.
func Trigger(t string) slog.Attr {
	return slog.String(KeyTrigger, t)
}

// Value returns a slog attribute for an unformatted value.
func Value(v string) slog.Attr {
	return slog.String(KeyValue, v)
}

// Buffer returns a slog attribute for the raw editing buffer.
func Buffer(b string) slog.Attr {
	return slog.String(KeyBuffer, b)
}

// Display returns a slog attribute for the displayed string.
func Display(d string) slog.Attr {
	return slog.String(KeyDisplay, d)
}

// Path returns a slog attribute for file path logging.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Delay returns a slog attribute for a timer delay.
func Delay(d time.Duration) slog.Attr {
	return slog.Duration(KeyDelay, d)
}

// Err returns a slog attribute for error logging.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}
