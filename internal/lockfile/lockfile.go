// Package lockfile serializes cross-process critical sections with advisory
// file locks.
package lockfile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// retryInterval is the interval between consecutive attempts to acquire a
// lock. 50ms balances responsiveness (low wait after the holder releases)
// against CPU overhead from busy-polling.
const retryInterval = 50 * time.Millisecond

// Lock is a held advisory file lock. Release it exactly once; Release on a
// nil Lock is a no-op.
type Lock struct {
	fl  *flock.Flock
	log *slog.Logger
}

// Acquire takes an exclusive lock on the given path, retrying at a fixed
// interval until it succeeds or ctx is done. A nil logger falls back to
// slog.Default().
func Acquire(ctx context.Context, path string, logger *slog.Logger) (*Lock, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fl := flock.New(path)

	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, err)
	}
	if !locked {
		// TryLockContext should return an error when it fails, but handle
		// the (false, nil) case anyway.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring file lock %s: %w", path, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring file lock %s: lock not acquired", path)
	}

	return &Lock{fl: fl, log: logger}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil || l.fl == nil {
		return ""
	}
	return l.fl.Path()
}

// Release unlocks and closes the file descriptor. The lock file is
// intentionally left on disk: removing it could invalidate a lock another
// process acquired between the unlock and the remove. Close() calls Unlock()
// internally, so no explicit Unlock is needed. Errors are logged at debug
// level since this is best-effort cleanup.
func (l *Lock) Release() {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		l.log.Debug("failed to release file lock", "path", l.fl.Path(), "err", err)
	}
	l.fl = nil
}
