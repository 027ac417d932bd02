// Package applog configures the process-wide structured logger.
package applog

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a slog.Logger at the named level ("debug", "info",
// "warn", "error"; unrecognized values fall back to "info"), writing
// JSON-formatted records to stdout.
func New(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// WithGraph returns a logger scoped to graphID, attached to every
// subsequent record it emits.
func WithGraph(logger *slog.Logger, graphID string) *slog.Logger {
	return logger.With("graph_id", graphID)
}

// WithSession returns a logger scoped to sessionID.
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	return logger.With("session_id", sessionID)
}
