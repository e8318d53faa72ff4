package jfa

import (
	"log/slog"
	"sync/atomic"
)

// silent discards every record; Enabled reports false so attribute
// formatting is skipped.
var silent = slog.New(slog.DiscardHandler)

var current atomic.Pointer[slog.Logger]

// SetLogger routes jfa diagnostics, including those of a registered
// accelerator, to l. Pass nil to silence them again, which is the default.
//
// Levels:
//   - Debug: pass timings, buffer sizes, step coverage
//   - Info: accelerator selection
//   - Warn: CPU fallback, encoding overflow
//
// SetLogger may be called while pipelines are running.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
	if a := Accelerator(); a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the logger installed by SetLogger. It is never nil.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return silent
}

// propagateLogger hands l to accelerators that log on their own.
func propagateLogger(a GPUAccelerator, l *slog.Logger) {
	if ls, ok := a.(interface{ SetLogger(*slog.Logger) }); ok {
		ls.SetLogger(l)
	}
}
