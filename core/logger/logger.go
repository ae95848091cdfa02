package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger

func init() {
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Info logs an informational message with optional key-value pairs
func Info(msg string, args ...any) {
	log.Info(msg, normalize(args)...)
}

// Warn logs a warning message with optional key-value pairs
func Warn(msg string, args ...any) {
	log.Warn(msg, normalize(args)...)
}

// Error logs an error message with optional key-value pairs.
// A single trailing error value is accepted as shorthand: Error("Repo:Method", err)
func Error(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
}

// normalize tolerates call sites that pass a bare error (or other odd value)
// instead of key-value pairs
func normalize(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
		return []any{"detail", args[0]}
	}
	if len(args)%2 != 0 {
		args = append(args, "(missing)")
	}
	return args
}
