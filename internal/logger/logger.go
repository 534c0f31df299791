package logger

import (
	"io"
	"log/slog"
	"os"
)

// Init installs the process-wide slog logger. level is one of debug, info,
// warn or error; anything else means info.
func Init(level string, json bool) *slog.Logger {
	return InitWriter(os.Stdout, level, json)
}

// InitWriter is Init writing to w.
func InitWriter(w io.Writer, level string, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fatal logs at error level and exits
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
