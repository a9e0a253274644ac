// Package logger provides structured logging initialization.
// It wraps slog with configurable log levels and output formats.
package logger

import (
	"log/slog"
	"os"

	"github.com/refurbly/gradeserver/internal/config"
)

// New creates a configured slog.Logger based on the provided configuration.
// It returns a text or JSON handler based on the Format setting.
func New(cfg *config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.ToSlogLevel(),
	}

	var handler slog.Handler
	if cfg.Format == config.LogFormatText {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
