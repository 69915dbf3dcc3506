package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"
	"github.com/catapult-run/catapult/internal/domain/config"
)

// LoggingSet wires NewLogger for google/wire-assembled containers.
var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger builds the process-wide slog.Logger. Level is controlled by
// CATAPULT_LOG_LEVEL, falling back to cfg.Verbosity (debug at verbosity 3).
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Verbosity >= 3 {
		level = slog.LevelDebug
	}

	if val := strings.ToLower(os.Getenv("CATAPULT_LOG_LEVEL")); val != "" {
		switch val {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn", "warning":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				source, ok := a.Value.Any().(*slog.Source)
				if ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// shortPath trims a file path down to the part after the module root, for
// less noisy source attribution when AddSource is enabled.
func shortPath(file string) string {
	if idx := strings.Index(file, "catapult/"); idx != -1 {
		return file[idx+len("catapult/"):]
	}
	parts := strings.Split(file, "/")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return file
}
