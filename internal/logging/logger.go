package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"waste-monitor-backend/config"
)

// New builds the process logger on stdout: coloured tint output in dev, JSON
// in prod.
func New(cfg *config.Config, version string) *slog.Logger {
	return newLogger(os.Stdout, cfg, version)
}

func newLogger(w io.Writer, cfg *config.Config, version string) *slog.Logger {
	level, _ := config.ParseLogLevel(cfg.LogLevel)

	if cfg.AppEnv == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", "waste-monitor")
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With(
		"app", "waste-monitor",
		"version", version,
		"env", cfg.AppEnv,
	)
}
