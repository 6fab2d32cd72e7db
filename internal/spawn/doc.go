// Package spawn manages the lifecycle of external processes launched from
// argv vectors.
//
// It defines Handle for common start/stop behavior, the Stoppable interface,
// StopCloseAndNil for atomic cleanup, WaitReady for polling-based readiness
// checks, and LogFiles for managing process stdout/stderr log files.
// ArgvStrings bridges nil-terminated argv views into the []string form
// os/exec expects.
package spawn
