// Package klog provides the kernel's leveled logger. It mirrors the
// original kernel_log_{error,warn,info,debug,trace} / kernel_panic
// severity ladder on top of zap's structured logger.
package klog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors log_level_t: higher values log more.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
	LevelAll
)

// Logger is the kernel-wide logging façade. The zero value is not usable;
// construct one with New.
type Logger struct {
	zap   *zap.Logger
	level Level
}

// New builds a Logger at the given starting level, matching
// KERNEL_LOG_LEVEL_DEFAULT (the original defaults to debug).
func New(level Level) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = ""
	z, err := cfg.Build()
	if err != nil {
		// zap's development config is static and always builds; a failure
		// here means the logging stack itself is broken.
		panic(fmt.Sprintf("klog: failed to build logger: %v", err))
	}
	return &Logger{zap: z, level: level}
}

// SetLevel sets the active log level and returns it, matching
// kernel_set_log_level's echo-back return value.
func (l *Logger) SetLevel(level Level) Level {
	l.level = level
	return l.level
}

// GetLevel returns the active log level.
func (l *Logger) GetLevel() Level { return l.level }

func (l *Logger) log(at Level, zl func(string, ...zapcore.Field), format string, args ...any) {
	if l.level < at {
		return
	}
	zl(fmt.Sprintf(format, args...))
}

// Error logs at LevelError.
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, l.zap.Error, format, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(format string, args ...any) { l.log(LevelWarn, l.zap.Warn, format, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(format string, args ...any) { l.log(LevelInfo, l.zap.Info, format, args...) }

// Debug logs at LevelDebug.
func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, l.zap.Debug, format, args...) }

// Trace logs at LevelTrace. zap has no dedicated trace level, so trace
// messages are emitted at debug severity, one notch below the kernel's own
// trace/debug split.
func (l *Logger) Trace(format string, args ...any) { l.log(LevelTrace, l.zap.Debug, format, args...) }

// Panic logs a fatal kernel invariant violation and then panics, the
// hosted equivalent of kernel_panic's breakpoint-then-exit sequence.
func (l *Logger) Panic(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.zap.Error("kernel panic: " + msg)
	panic(msg)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.zap.Sync() }
