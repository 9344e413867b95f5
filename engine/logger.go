package engine

import (
	"log/slog"
	"sync/atomic"
)

// loggerPtr is the package default for engines constructed without WithLogger
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

// SetLogger sets the default logger for engines created afterwards; nil restores silence
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}

// Logger returns the current default logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
