package streamutil

import (
	"log/slog"
	"sync/atomic"
)

// moduleTag identifies this package in log records.
const moduleTag = "streamutil"

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger that receives swallowed close failures. A nil
// logger restores slog.Default(). Safe to call concurrently with Close.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func currentLogger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
