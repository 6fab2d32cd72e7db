package git

import (
	"log/slog"

	"github.com/KeenNjupt/git/internal/trace"
)

// SetLogger replaces the package-level logger used by this module.
// This allows applications to integrate the library's logging with their
// own logging infrastructure. The provided logger should already have any
// desired attributes; the library will not add additional attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// Thread safety: SetLogger is safe to call concurrently with other
// operations. Both the custom logger and the cached default are stored as
// atomic pointers, so loads and stores are data-race-free. A concurrent
// logging call during SetLogger always sees a valid *slog.Logger, though it
// may briefly use the previous logger until both atomic stores complete.
// For a strict happens-before guarantee, call SetLogger before starting
// goroutines that use the library (e.g., in TestMain before m.Run).
func SetLogger(l *slog.Logger) {
	trace.SetLogger(l)
}
