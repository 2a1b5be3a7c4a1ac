package utils

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mdobak/go-xerrors"
)

var (
	loggerOnce sync.Once
	logger     *slog.Logger
)

// GetLogger returns the shared structured logger. The level is taken from
// ECG_LOG_LEVEL (debug, info, warn, error) and defaults to info.
func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		level := parseLevel(GetEnv("ECG_LOG_LEVEL", "info"))
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		logger = slog.New(handler)
	})
	return logger
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

// LogError records err with a stack trace attached via xerrors.
func LogError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	wrapped := xerrors.New(err)
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.Any("error", wrapped))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	GetLogger().ErrorContext(ctx, msg, args...)
}
