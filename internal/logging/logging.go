// Package logging configures the supervisor's structured log following the
// slog-plus-rotating-file pattern used elsewhere in this codebase: JSON
// lines to stdout during development, JSON lines to a size- and age-bounded
// rotating file in production.
package logging

import (
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Setup.
type Options struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string
	// ToFile selects the rotating file writer at path over stdout.
	ToFile bool
	// Path is the log file path, used only when ToFile is true.
	Path string
}

func parseLevel(s string) slog.Level {
	switch s {
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

// Setup returns a JSON-structured logger per Options. Callers should treat
// the returned logger as the root logger and derive children with
// logger.With(...) for per-component fields, the way every constructor in
// this codebase accepts a *slog.Logger.
func Setup(opts Options) *slog.Logger {
	level := parseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var writer = os.Stdout
	if opts.ToFile && opts.Path != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		return slog.New(slog.NewJSONHandler(rotating, handlerOpts))
	}

	return slog.New(slog.NewJSONHandler(writer, handlerOpts))
}
