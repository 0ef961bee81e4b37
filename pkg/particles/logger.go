package particles

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the default logger for systems created afterwards.
// By default the package is silent. Pass nil to silence it again.
//
// Levels used:
//   - [slog.LevelDebug]: start/stop transitions, burst emission
//   - [slog.LevelInfo]: emitter lifetime elapsed
//   - [slog.LevelWarn]: rejected settings
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current package default logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
