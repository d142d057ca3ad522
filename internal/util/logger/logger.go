// Package logger provides meshd's structured logging, built on log/slog.
//
// Every subsystem gets its own named *slog.Logger whose level can be
// overridden independently of the global default, either via the
// MESHD_LOG_LEVEL environment variable or at runtime with SetLevel.
//
// Usage:
//
//	package envwatch
//
//	var log = logger.Logger("envwatch")
//
//	func foo() {
//	    log.Info("fingerprint changed", "old", old, "new", new)
//	}
package logger

import (
	"io"
	"log/slog"
	"sync"
)

var (
	loggers  sync.Map // map[string]*slog.Logger
	handlers sync.Map // map[string]*subsystemHandler

	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
)

// Logger returns the named subsystem's logger, creating it on first use.
// Repeated calls with the same name return the same instance.
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	level := cfg.LevelForSubsystem(subsystem)

	handler := newHandler(subsystem, level, cfg.Format)
	l := slog.New(handler)

	actual, _ := loggers.LoadOrStore(subsystem, l)
	if h, ok := handler.(*subsystemHandler); ok {
		handlers.Store(subsystem, h)
	}

	return actual.(*slog.Logger)
}

// GlobalLogger returns the default logger, for code with no natural
// subsystem name (e.g. fx-injected loggers).
func GlobalLogger() *slog.Logger {
	globalLoggerOnce.Do(func() {
		globalLogger = Logger("meshd")
	})
	return globalLogger
}

// SetLevel changes a subsystem's level at runtime.
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// SetGlobalLevel changes every known subsystem's level at once.
func SetGlobalLevel(level slog.Level) {
	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).SetLevel(level)
		return true
	})
}

// Discard returns a logger that drops everything, for use in tests.
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}

// With returns the named subsystem's logger with the given attributes
// bound.
func With(subsystem string, args ...any) *slog.Logger {
	return Logger(subsystem).With(args...)
}

func Debug(subsystem, msg string, args ...any) { Logger(subsystem).Debug(msg, args...) }
func Info(subsystem, msg string, args ...any)  { Logger(subsystem).Info(msg, args...) }
func Warn(subsystem, msg string, args ...any)  { Logger(subsystem).Warn(msg, args...) }
func Error(subsystem, msg string, args ...any) { Logger(subsystem).Error(msg, args...) }

// SetOutput redirects every logger's output, including ones already
// created. Call it once at startup, before the volume gets heavy.
func SetOutput(w io.Writer) {
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}
