package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a structured JSON slog.Logger on stderr with the given
// level. Debug level also records the source location of each entry.
func NewLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug})
	return slog.New(h).With("app", "frame-labeler")
}
