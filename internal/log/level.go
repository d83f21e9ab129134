package log

import (
	"log/slog"
	"strings"
)

// Level is the minimum severity a logger emits. It maps directly onto
// slog's levels; there is no custom severity ladder here.
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// ParseLevel maps a --log-level flag value onto a Level. Unrecognized
// values fall back to info so a typo never silences diagnostics output.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
