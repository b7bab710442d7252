package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/scopesignals/coverage/internal/config"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := newLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
