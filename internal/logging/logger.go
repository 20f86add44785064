// Package logging defines the structured-logging interface used across the
// client. Implementations wrap log/slog or zap; New picks one from config.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "users loaded", "count", n, "limit", limit)
type Logger interface {
	// Debug logs request-level chatter that is off by default.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}

var ErrUnknownFormat = errors.New("unknown log format")

// Supported values of the log_format setting.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatZap  = "zap"
)

// New builds a Logger writing to w. format is one of FormatText, FormatJSON
// or FormatZap; level is debug, info, warn or error.
func New(format, level string, w io.Writer) (Logger, error) {
	var (
		l   Logger
		err error
	)
	switch strings.ToLower(format) {
	case "", FormatText:
		l, err = newSlogWriterLogger(w, false, level)
	case FormatJSON:
		l, err = newSlogWriterLogger(w, true, level)
	case FormatZap:
		l, err = NewZapWriterLogger(w, level)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Nop returns a Logger that discards everything. Handy for tests and for
// components constructed without a logger.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
