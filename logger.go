package glyphrun

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for glyphrun and its engines.
// By default, glyphrun produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by glyphrun:
//   - [slog.LevelDebug]: channel computes, run registration and release
//   - [slog.LevelWarn]: fonts that fail to cover requested text
//
// Example:
//
//	glyphrun.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by glyphrun.
// Engine packages (gotext, memengine) call this to share the same
// logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
