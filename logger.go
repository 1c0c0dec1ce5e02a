package hwcomposer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
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
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the diagnostics sink for hwcomposer and its
// sub-packages. By default the backend produces no log output.
//
// SetLogger is safe for concurrent use: it stores the new logger
// atomically. Pass nil to disable logging (restore default silent
// behavior).
//
// Log levels used:
//   - [slog.LevelDebug]: per-layer dumps during Prepare/Commit, blit
//     address algebra
//   - [slog.LevelWarn]: non-fatal faults (missing handle, out-of-bounds
//     geometry, hardware engine unavailable or rejecting a request)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	// Propagate to the block-transfer engine if it accepts a logger.
	btMu.RLock()
	e := blockTransfer
	btMu.RUnlock()
	if e != nil {
		propagateLogger(e, l)
	}
}

// Logger returns the current diagnostics logger. Sub-packages (xylonbb,
// fb) call this to share the same logger configuration without
// introducing import cycles.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by block-transfer engines that accept a
// logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to an engine if it implements the
// loggerSetter interface. Called from both SetLogger and
// RegisterBlockTransfer so the engine always has the current logger.
func propagateLogger(e BlockTransfer, l *slog.Logger) {
	if ls, ok := e.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
