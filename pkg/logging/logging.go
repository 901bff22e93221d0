// Package logging builds the process-wide slog logger: JSON in production,
// colored tint output while developing.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger writing to stdout and installs it as the slog default.
func New(level string, production bool) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, ParseLevel(level), production))
	slog.SetDefault(logger)
	return logger
}

// NewHandler picks the handler for the environment.
func NewHandler(w io.Writer, level slog.Level, production bool) slog.Handler {
	if production {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps debug, info, warn and error to slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
