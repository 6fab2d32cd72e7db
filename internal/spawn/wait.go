package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/KeenNjupt/git/internal/sentinel"
)

// Sentinel errors returned by WaitReady for invalid configuration and
// process lifecycle conditions. Callers can match these with errors.Is
// through wrapped error chains.
const (
	// ErrIntervalNotPositive indicates a non-positive poll interval.
	ErrIntervalNotPositive = sentinel.Error("interval must be positive")

	// ErrTimeoutNotPositive indicates a non-positive timeout.
	ErrTimeoutNotPositive = sentinel.Error("timeout must be positive")

	// ErrProcessExited indicates the process exited before becoming ready.
	ErrProcessExited = sentinel.Error("process exited before becoming ready")
)

// ReadinessCheck is a function that checks whether a service is ready.
// The context is canceled when the polling loop times out or the caller
// cancels, letting checks such as TCP dials exit promptly. The attempt
// parameter is 1-based. It returns true when ready, false to continue
// polling; a non-nil error is fatal and aborts polling.
type ReadinessCheck func(ctx context.Context, attempt int) (ready bool, err error)

// WaitReadyConfig configures the wait behavior.
type WaitReadyConfig struct {
	Interval      time.Duration   // poll interval
	Timeout       time.Duration   // overall timeout
	Name          string          // for logging and error messages
	Port          int             // for logging context
	Logger        *slog.Logger    // optional logger (defaults to slog.Default())
	ProcessExited <-chan struct{} // if non-nil, abort immediately when closed
}

// WaitReady polls until the check function returns true or the timeout
// elapses. A non-nil check error aborts polling immediately, as does a
// closed ProcessExited channel.
func WaitReady(ctx context.Context, cfg WaitReadyConfig, check ReadinessCheck) error {
	if cfg.Name == "" {
		return errors.New("wait ready: name must not be empty")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Name, ErrIntervalNotPositive)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Name, ErrTimeoutNotPositive)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	// attempt needs no synchronization: PollUntilContextTimeout invokes the
	// condition sequentially, so the closure never runs concurrently with
	// itself.
	attempt := 0
	if err := wait.PollUntilContextTimeout(ctx, cfg.Interval, cfg.Timeout, true,
		func(pollCtx context.Context) (bool, error) {
			// Bail out before dialing when the process already died, e.g.
			// from a port bind failure. Otherwise the poll would burn the
			// whole timeout against a corpse.
			if cfg.ProcessExited != nil {
				select {
				case <-cfg.ProcessExited:
					return false, fmt.Errorf("process %s: %w", cfg.Name, ErrProcessExited)
				default:
				}
			}

			attempt++
			ready, err := check(pollCtx, attempt)
			if err != nil {
				return false, err
			}
			if ready {
				log.Debug("wait succeeded", "name", cfg.Name, "port", cfg.Port, "attempt", attempt)
			}
			return ready, nil
		}); err != nil {
		return fmt.Errorf("wait for %s readiness on port %d: %w", cfg.Name, cfg.Port, err)
	}
	return nil
}
