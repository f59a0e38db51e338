package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// DefaultContextProvider supplies the context of the logging calls that do
// not take one.
var DefaultContextProvider = context.TODO

var (
	defaultMu  sync.RWMutex
	defaultLog = Make(os.Stderr)
)

// Default returns the package logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLog
}

// Config reconfigures the package logger.
func Config(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLog = defaultLog.Wrap(opts...)
}

// With returns the package logger with attrs added to every record.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }

// TraceContext logs at [LevelTrace] with the package logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug] with the package logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelDebug, msg, attrs)
}

// Debug logs at [LevelDebug] with the package logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), 3, LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo] with the package logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelInfo, msg, attrs)
}

// Info logs at [LevelInfo] with the package logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), 3, LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn] with the package logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelWarn, msg, attrs)
}

// Warn logs at [LevelWarn] with the package logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), 3, LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError] with the package logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelError, msg, attrs)
}

// Error logs at [LevelError] with the package logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), 3, LevelError, msg, attrs)
}
