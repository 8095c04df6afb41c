// Package logging builds the optional diagnostic logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LevelOff disables logging.
const LevelOff = "off"

// ParseLevel maps a level name to a slog level. ok is false for "off" or "".
func ParseLevel(name string) (level slog.Level, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LevelOff:
		return 0, false, nil
	case "debug":
		return slog.LevelDebug, true, nil
	case "info":
		return slog.LevelInfo, true, nil
	case "warn", "warning":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	default:
		return 0, false, fmt.Errorf("unknown log level %q (want off, debug, info, warn, error)", name)
	}
}

// New returns a text logger writing to w, or a discarding logger when level is off.
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, ok, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if !ok || w == nil {
		return Discard(), nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open returns a logger appending to path, or to fallback when path is empty.
// The returned close func is never nil.
func Open(path, level string, fallback io.Writer) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	_, ok, err := ParseLevel(level)
	if err != nil {
		return nil, noop, err
	}
	if !ok {
		return Discard(), noop, nil
	}
	if path == "" {
		logger, err := New(fallback, level)
		return logger, noop, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, noop, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := New(file, level)
	if err != nil {
		_ = file.Close()
		return nil, noop, err
	}
	return logger, file.Close, nil
}
