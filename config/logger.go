package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a slog.Logger for the given environment writing to stdout.
// Production uses the JSON handler; otherwise the text handler.
// LOG_LEVEL may be: debug, info, warn, error (default: info).
func NewLogger(environment string) *slog.Logger {
	return newLogger(os.Stdout, environment, os.Getenv("LOG_LEVEL"))
}

func newLogger(w io.Writer, environment, levelName string) *slog.Logger {
	level := slog.LevelInfo
	if levelName != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.ToUpper(levelName))); err == nil {
			level = l
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if environment == "production" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", "healthconsultant")
}
