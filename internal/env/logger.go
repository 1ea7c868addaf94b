package environment

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"vkshell/internal/config"
)

// initLogger builds the process logger. The format falls back to text on a
// local machine and JSON everywhere else.
func initLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.Logger.Level),
		AddSource: cfg.Logger.AddSource,
	}

	format := strings.ToLower(cfg.Logger.Format)
	if format == "" {
		format = "json"
		if cfg.Env == "local" {
			format = "text"
		}
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Logger.Format)
	}

	return slog.New(handler).With(slog.String("env", cfg.Env)), nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
