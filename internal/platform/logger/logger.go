// Package logger builds the process-wide slog.Logger.
package logger

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// New returns a structured logger. LOG_FORMAT=text selects the tinted
// human-readable handler for local development; anything else emits JSON.
func New(format string) *slog.Logger {
	if format == "text" {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
