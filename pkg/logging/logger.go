package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"transitctl/pkg/config"
)

// New builds the process logger. Text output goes through tint so debug
// request logs stay readable in a terminal.
func New(w io.Writer, cfg config.Logging, appName string) *slog.Logger {
	if cfg.Format == "json" {
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.Level,
		})
		return slog.New(h).With("app", appName)
	}

	h := tint.NewHandler(w, &tint.Options{
		Level:      cfg.Level,
		TimeFormat: time.Kitchen,
	})
	return slog.New(h)
}
