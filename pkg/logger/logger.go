package logger

import (
	"log/slog"
)

// Logger receives per-entry outcomes from the scanner and executor.
// Args are slog-style key/value pairs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogLogger forwards to a *slog.Logger.
type SlogLogger struct {
	log *slog.Logger
}

func NewSlog(log *slog.Logger) *SlogLogger {
	if log == nil {
		log = slog.Default()
	}
	return &SlogLogger{log: log}
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.log.Error(msg, args...)
}

// QuietLogger drops Info and forwards Error.
type QuietLogger struct {
	Logger Logger
}

func (l QuietLogger) Info(msg string, args ...any) {}

func (l QuietLogger) Error(msg string, args ...any) {
	l.Logger.Error(msg, args...)
}

type NullLogger struct{}

func (NullLogger) Info(msg string, args ...any) {}

func (NullLogger) Error(msg string, args ...any) {}

// OrNull returns l, or a NullLogger when l is nil.
func OrNull(l Logger) Logger {
	if l == nil {
		return NullLogger{}
	}
	return l
}
