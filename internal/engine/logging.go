package engine

import (
	"io"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go-kit/env"
)

// InitLogger installs the default slog logger: LOG_FORMAT=json|text, LOG_LEVEL=debug|info|warn|error.
func InitLogger(w io.Writer) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(env.Str("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(env.Str("LOG_FORMAT", "text"), "json") {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}
