// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides structured logging for the reservation service.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"
)

// Logger is the interface every component depends on; never a concrete
// *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

type slogLogger struct {
	logger *slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level   slog.Level
	Format  Format
	Output  *os.File
	Version string
}

// Format is the log output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// DefaultConfig returns a default logger configuration: text, info level,
// stdout.
func DefaultConfig() *Config {
	return &Config{
		Level:   slog.LevelInfo,
		Format:  FormatText,
		Output:  os.Stdout,
		Version: "unknown",
	}
}

// New creates a Logger from the given configuration.
func New(config *Config) Logger {
	if config == nil {
		config = DefaultConfig()
	}

	opts := &slog.HandlerOptions{
		Level: config.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	switch config.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(config.Output, opts)
	default:
		handler = slog.NewTextHandler(config.Output, opts)
	}

	logger := slog.New(handler).With(
		"service", "rereserve",
		"version", config.Version,
	)

	return &slogLogger{logger: logger}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, sanitizeFields(args)...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, sanitizeFields(args)...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, sanitizeFields(args)...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, sanitizeFields(args)...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	attrs := make([]any, 0, 2)
	if requestID := ctx.Value(contextKeyRequestID); requestID != nil {
		attrs = append(attrs, "request_id", requestID)
	}
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// WithRequestID returns a context carrying a request id for later retrieval
// by WithContext.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, id)
}

// sanitizeLogValue strips control characters from string field values to
// prevent log injection via user-supplied data (note, user_id, resource_id).
func sanitizeLogValue(value any) any {
	str, ok := value.(string)
	if !ok {
		return value
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, str)
}

// sanitizeFields sanitizes every other element of a key/value arg list
// (the values, not the keys, which are always literals under our control).
func sanitizeFields(args []any) []any {
	sanitized := make([]any, len(args))
	for i, a := range args {
		if i%2 == 1 {
			sanitized[i] = sanitizeLogValue(a)
		} else {
			sanitized[i] = a
		}
	}
	return sanitized
}

// NoOpLogger discards all log messages.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, args ...any)          {}
func (NoOpLogger) Info(msg string, args ...any)           {}
func (NoOpLogger) Warn(msg string, args ...any)           {}
func (NoOpLogger) Error(msg string, args ...any)          {}
func (NoOpLogger) With(args ...any) Logger                { return NoOpLogger{} }
func (NoOpLogger) WithContext(ctx context.Context) Logger { return NoOpLogger{} }
