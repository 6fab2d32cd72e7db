package spawn

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// DefaultStopTimeout is the fallback timeout for stopping a process when a
// caller configured none.
const DefaultStopTimeout = 10 * time.Second

// termGracePeriod is the maximum time to wait for a process to exit after
// SIGTERM before escalating to SIGKILL. The actual grace period is capped at
// the overall timeout.
const termGracePeriod = 5 * time.Second

// killDrainTimeout is the hard upper bound for waiting on process exit after
// SIGKILL has been sent (or after the process has already exited). SIGKILL
// cannot be caught, so the process should exit almost immediately; this
// timeout is a safety net against cmd.Wait never returning, e.g. due to
// stuck I/O.
const killDrainTimeout = 10 * time.Second

// waitExit waits for the exited channel with the given timeout as a hard
// upper bound. It reports whether the channel closed in time.
func waitExit(exited <-chan struct{}, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-exited:
		return true
	case <-t.C:
		return false
	}
}

// stopWithExited implements the SIGTERM-then-SIGKILL shutdown sequence
// against a process whose single cmd.Wait goroutine closes exited on exit.
// waitErr must return the stored cmd.Wait result; it may only be called
// after exited has closed.
//
// Shutdown flow:
//  1. Send SIGTERM for graceful shutdown.
//  2. Schedule SIGKILL via time.AfterFunc after a grace period (canceled if
//     the process exits first).
//  3. Wait for process exit or total timeout.
//
// stopWithExited does not clear cmd; the caller resets its own references
// once it returns.
//
// Worst-case blocking is timeout + killDrainTimeout, hit when the main
// timeout expires and the post-SIGKILL drain also runs out. Callers
// budgeting time should account for that extra killDrainTimeout.
func stopWithExited(cmd *exec.Cmd, exited <-chan struct{}, waitErr func() error, timeout time.Duration, name string) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if exited == nil {
		return fmt.Errorf("%s: exited channel must not be nil", name)
	}

	// Send SIGTERM for graceful shutdown.
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Signal failure means the process already exited; drain with a
		// hard upper bound to avoid blocking indefinitely.
		if !waitExit(exited, killDrainTimeout) {
			return fmt.Errorf("%s: timed out draining process after signal failure", name)
		}
		return expectSignalExit(waitErr(), name)
	}

	// Schedule SIGKILL after the grace period. If the process exits before
	// then, killTimer.Stop() cancels the escalation.
	//
	// grace is clamped to timeout so SIGKILL always fires while the total
	// timer still runs, giving the drain below a window to collect the exit
	// status instead of hitting the timeout path.
	grace := min(termGracePeriod, timeout)
	killTimer := time.AfterFunc(grace, func() {
		// Kill after exit is a harmless no-op ("os: process already
		// finished"), so the error is discarded.
		_ = cmd.Process.Kill()
	})
	defer killTimer.Stop()

	totalTimer := time.NewTimer(timeout)
	defer totalTimer.Stop()

	select {
	case <-exited:
		return expectSignalExit(waitErr(), name)
	case <-totalTimer.C:
		if !waitExit(exited, killDrainTimeout) {
			return fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", name)
		}
		if err := expectSignalExit(waitErr(), name); err != nil {
			return fmt.Errorf("%s stop timeout: %w", name, err)
		}
		return nil
	}
}

// expectSignalExit interprets an error from cmd.Wait after a termination
// signal was sent. Exit statuses caused by SIGTERM or SIGKILL are expected
// and count as successful stops.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			sig := status.Signal()
			if sig == syscall.SIGTERM || sig == syscall.SIGKILL {
				return nil
			}
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}
