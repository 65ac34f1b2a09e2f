package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// parseLogLevel maps a configured level name onto a slog.Level.
func parseLogLevel(name string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(name)]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// newLogger creates and configures a new slog.Logger instance writing to
// outW. It does not set the global logger, so every App gets an isolated
// logger. Unknown levels fall back to info and any format other than
// "json" selects the text handler.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, err := parseLogLevel(levelStr)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	logger := slog.New(handler)
	if err != nil {
		logger.Warn("Falling back to info logging.", "error", err)
	}
	return logger
}
