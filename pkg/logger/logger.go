// Package logger provides basic logging functionalities on top of zap.
package logger

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines a simple interface for logging.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

// ParseLevel maps "debug", "info", "warn", "error" and "fatal" to a zap level.
// Unknown values fall back to info.
func ParseLevel(logLevel string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// NewZap builds the structured logger handed to long-lived components.
// The debug level uses zap's development encoder, every other level the
// production one.
func NewZap(logLevel string) (*zap.Logger, error) {
	lvl := ParseLevel(logLevel)
	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// NewLogger creates a Logger writing leveled console lines to stdout and
// errors to stderr.
// loglevel could be "debug", "info", "warn", "error", "fatal"
func NewLogger(logLevel string) Logger {
	return newConsole(zap.NewAtomicLevelAt(ParseLevel(logLevel)))
}

// FromZap adapts an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	return z.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func newConsole(level zap.AtomicLevel) *zap.SugaredLogger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		CallerKey:      "caller",
		MessageKey:     "msg",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	below := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l < zapcore.ErrorLevel
	})
	above := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l >= zapcore.ErrorLevel
	})
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), below),
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), above),
	)
	// Skip this package's wrappers so callers show up in the output.
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

var (
	stdLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	std      atomic.Pointer[Logger]
)

func init() {
	var l Logger = newConsole(stdLevel)
	std.Store(&l)
}

func global() Logger {
	return *std.Load()
}

// SetGlobalLogLevel reconfigures the global std logger's level.
func SetGlobalLogLevel(logLevel string) {
	stdLevel.SetLevel(ParseLevel(logLevel))
}

// SetGlobal replaces the global std logger, returning the previous one.
func SetGlobal(l Logger) Logger {
	return *std.Swap(&l)
}

// Debug logs a debug message using the global std logger.
func Debug(args ...interface{}) {
	global().Debug(args...)
}

// Debugf logs a debug message with formatting.
func Debugf(format string, args ...interface{}) {
	global().Debugf(format, args...)
}

// Info logs an informational message using the global std logger.
func Info(args ...interface{}) {
	global().Info(args...)
}

// Infof logs an informational message with formatting.
func Infof(format string, args ...interface{}) {
	global().Infof(format, args...)
}

// Warn logs a warning message.
func Warn(args ...interface{}) {
	global().Warn(args...)
}

// Warnf logs a warning message with formatting.
func Warnf(format string, args ...interface{}) {
	global().Warnf(format, args...)
}

// Error logs an error message.
func Error(args ...interface{}) {
	global().Error(args...)
}

// Errorf logs an error message with formatting.
func Errorf(format string, args ...interface{}) {
	global().Errorf(format, args...)
}

// Fatal logs a fatal error message and exits.
func Fatal(args ...interface{}) {
	global().Fatal(args...)
}

// Fatalf logs a fatal error message with formatting and exits.
func Fatalf(format string, args ...interface{}) {
	global().Fatalf(format, args...)
}
