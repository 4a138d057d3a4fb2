package legalmd

import (
	"log/slog"
	"os"
)

// Logger is the thin structured-logging surface the pipeline depends on.
// It exists so stages can be exercised in tests without wiring a full
// *slog.Logger, while production code always passes one through.
type Logger interface {
	debug(msg string, args ...any)
	warn(msg string, args ...any)
	error(msg string, args ...any)
}

type slogLogger struct{ l *slog.Logger }

func (s slogLogger) debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) error(msg string, args ...any) { s.l.Error(msg, args...) }

// NewLogger wraps a *slog.Logger for use by the pipeline stages.
func NewLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{l: l}
}

// NewSlogLogger builds the process-wide logger. format is "json" or "text"
// (default), mirroring the LOG_LEVEL/LOG_FORMAT wiring in cmd/chrc/main.go.
func NewSlogLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
