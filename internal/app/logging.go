package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/notedraft/internal/config"
)

// ParseLogLevel parses a level name. Unknown names map to info.
func ParseLogLevel(s string) slog.Level {
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

// NewLogger builds the session logger. Output defaults to os.Stderr;
// format "json" selects the JSON handler, anything else the text handler.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	return newLogger(cfg.Format, w, ParseLogLevel(cfg.Level))
}

func newLogger(format string, w io.Writer, level slog.Leveler) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("app", "notedraft")
}
