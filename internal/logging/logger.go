package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"pmlbot/internal/config"
)

// New builds the application logger: JSON to stdout, and when error logging
// is enabled, errors additionally appended to the configured log file.
// Verbose drops the stdout level to debug regardless of the configured level.
// The returned closer flushes the error log file, if any.
func New(cfg config.LoggingConfig, level string, verbose bool) (*slog.Logger, func() error, error) {
	logLevel := parseLevel(level)
	if verbose {
		logLevel = slog.LevelDebug
	}

	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})

	if !cfg.ErrorLogging {
		return slog.New(stdout), func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.ErrorLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open error log: %w", err)
	}

	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(teeHandler{stdout, file}), f.Close, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// teeHandler fans records out to every handler that accepts their level.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	var firstErr error
	for _, h := range t {
		if !h.Enabled(ctx, rec.Level) {
			continue
		}
		if err := h.Handle(ctx, rec.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(teeHandler, len(t))
	for i, h := range t {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	next := make(teeHandler, len(t))
	for i, h := range t {
		next[i] = h.WithGroup(name)
	}
	return next
}
