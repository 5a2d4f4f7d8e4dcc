// Package engine holds the pieces shared by the engine sub-packages.
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the engine packages.
// By default nothing is logged. Pass nil to restore that.
//
// Levels:
//   - Debug: per-tick details (event counts, font reconstructions)
//   - Info: lifecycle (broker ready, teardown)
//   - Warn: recoverable failures (render errors, font registration errors)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
