package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelFatal sits above slog.LevelError for failures that stop startup.
const LevelFatal = slog.LevelError + 4

// LevelName returns the upper case severity name used in every log format.
func LevelName(level slog.Level) string {
	switch {
	case level >= LevelFatal:
		return "FATAL"
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// ParseLevel accepts the names returned by LevelName in any case, plus
// "warning" and "none".
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "verbose":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "fatal":
		return LevelFatal, nil
	case "none":
		return LevelFatal + 1, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
