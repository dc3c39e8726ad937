// Package logging builds the process logger: readable text on the console
// and JSON lines in the campaign log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// ParseLevel maps a config level name onto a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Setup returns a logger writing text to console and JSON to logFile, plus
// a cleanup that closes the file. An empty logFile, or one that cannot be
// opened, leaves only the console handler.
func Setup(console io.Writer, logFile string, level slog.Level) (*slog.Logger, func() error) {
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
	if logFile == "" {
		return slog.New(consoleHandler), func() error { return nil }
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("failed to open log file, using console only", "file", logFile, "err", err)
		return logger, func() error { return nil }
	}

	return WithWriters(console, file, level), file.Close
}

// WithWriters fans records out to a text writer and a JSON writer
func WithWriters(console, jsonOut io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slogmulti.Fanout(
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
		slog.NewJSONHandler(jsonOut, &slog.HandlerOptions{Level: level}),
	))
}
