// Package trace holds the process-wide logger shared by every package in
// this module.
package trace

import (
	"log/slog"
	"sync/atomic"
)

// logger is the module-wide logger, stored as an atomic pointer so spawned
// process goroutines can read it while a caller replaces it. Named "logger"
// rather than "log" to avoid shadowing the stdlib package.
//
// A nil value means no custom logger has been set; Logger() then falls back
// to a cached default derived from slog.Default().
var logger atomic.Pointer[slog.Logger]

// defaultLogger caches the default-derived logger (slog.Default() with the
// component attribute) so Logger() does not allocate on every call. The cache
// goes stale if slog.SetDefault() changes afterwards; SetLogger(nil) clears
// it so the next Logger() call re-derives.
var defaultLogger atomic.Pointer[slog.Logger]

// Logger returns the current module-wide logger. With no custom logger set
// it returns a cached logger derived from slog.Default() with the component
// attribute. Safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := newDefaultLogger()
	// CompareAndSwap so a concurrent caller's cached value wins over ours.
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	// A concurrent SetLogger may have cleared the cache between the CAS and
	// this load; fall back to the locally built logger so the result is
	// never nil.
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

// newDefaultLogger derives the default logger with the component attribute.
func newDefaultLogger() *slog.Logger {
	return slog.Default().With("component", "git")
}

// SetLogger replaces the module-wide logger. A nil l resets to the default:
// slog.Default() with the component attribute, re-derived on the next
// Logger() call and then cached.
//
// Safe to call concurrently with Logger.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	// Clear the cached default so SetLogger(nil) picks up a changed
	// slog.Default() on the next Logger() call.
	defaultLogger.Store(nil)
}
