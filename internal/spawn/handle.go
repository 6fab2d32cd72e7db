package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Handle owns one external process from start through exit. Embed or hold it
// in higher-level types that add domain behavior on top of the raw lifecycle.
//
// A Handle is not safe for concurrent use. Callers must serialize access to
// Start, Stop, Close, and IsStarted; Exited and Wait may be used from other
// goroutines once Start has returned.
type Handle struct {
	cmd      *exec.Cmd
	exited   chan struct{} // closed when the process exits
	waitErr  error         // cmd.Wait result; written before exited closes
	exitedAt time.Time     // process exit time; written before exited closes
	logFiles LogFiles

	name        string        // process name for logging and error messages
	log         *slog.Logger  // logger for operational messages
	stopTimeout time.Duration // auto-stop timeout in Close; zero uses DefaultStopTimeout
}

// New creates a Handle with the given name, logger, and stop timeout. The
// stop timeout is the safety net Close applies when a still-running process
// was never explicitly stopped; zero falls back to DefaultStopTimeout. A nil
// logger falls back to slog.Default(). Panics if name is empty, since an
// empty name produces useless error messages through the whole lifecycle.
func New(name string, logger *slog.Logger, stopTimeout time.Duration) Handle {
	if name == "" {
		panic("spawn: process name must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return Handle{name: name, log: logger, stopTimeout: stopTimeout}
}

// Name returns the process name given to New.
func (h *Handle) Name() string {
	return h.name
}

// Logger returns the logger used by this handle.
func (h *Handle) Logger() *slog.Logger {
	return h.log
}

// IsStarted reports whether the process has been started and not yet stopped.
func (h *Handle) IsStarted() bool {
	return h.cmd != nil
}

// Pid returns the process ID, or zero when no process is running.
func (h *Handle) Pid() int {
	if h.cmd == nil || h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Exited returns a channel that is closed when the process exits. Any number
// of goroutines may select on it. Returns nil if the process was never
// started.
func (h *Handle) Exited() <-chan struct{} {
	return h.exited
}

// ExitedAt returns the time the process exited. Valid only after the Exited
// channel has closed; callers that have not observed the close see the zero
// time, or a previous run's value. The timestamp is taken in the cmd.Wait
// goroutine, so it marks the actual exit rather than when a caller got
// around to reaping it.
func (h *Handle) ExitedAt() time.Time {
	return h.exitedAt
}

// StdoutLogPath returns the stdout log file path, or "" when the process was
// not started with StdioFiles.
func (h *Handle) StdoutLogPath() string {
	return h.logFiles.StdoutPath()
}

// StderrLogPath returns the stderr log file path, or "" when the process was
// not started with StdioFiles.
func (h *Handle) StderrLogPath() string {
	return h.logFiles.StderrPath()
}

// Start validates cfg and launches the process. One goroutine calling
// cmd.Wait is started here so that exactly one Wait call is made per
// process; its result is readable through Wait and the Exited channel.
//
// Returns ErrAlreadyStarted if a process is already running under this
// handle. Callers must Stop before starting again.
func (h *Handle) Start(ctx context.Context, cfg Config) error {
	if h.cmd != nil {
		return ErrAlreadyStarted
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s config: %w", h.name, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start %s: %w", h.name, err)
	}

	cmd := exec.Command(cfg.Argv[0], cfg.Argv[1:]...) //nolint:gosec // G204: argv comes from the caller by design
	cmd.Dir = cfg.Dir
	cmd.Env = cfg.Env
	cmd.Stdin = cfg.Stdin
	configureSysProcAttr(cmd)

	logFiles, err := h.attachStdio(cmd, cfg)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		logFiles.Close()
		return fmt.Errorf("start %s process: %w", h.name, err)
	}
	h.cmd = cmd
	h.logFiles = logFiles

	// The single cmd.Wait goroutine. cmd.Wait must be called exactly once
	// per started process; a second call is undefined behavior and may
	// block forever. The goroutine stores the result before closing exited,
	// so any reader observing the close also observes waitErr.
	exited := make(chan struct{})
	go func() {
		h.waitErr = cmd.Wait()
		h.exitedAt = time.Now()
		close(exited)
	}()
	h.exited = exited

	h.log.Debug("process started", "process", h.name, "pid", cmd.Process.Pid)
	return nil
}

// attachStdio wires the configured stdio destinations into cmd. For
// StdioFiles it creates the log files; the returned LogFiles is zero for
// every other mode.
func (h *Handle) attachStdio(cmd *exec.Cmd, cfg Config) (LogFiles, error) {
	switch cfg.Stdio {
	case StdioInherit:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	case StdioFiles:
		logFiles, err := NewLogFiles(cfg.LogDir, h.name)
		if err != nil {
			return LogFiles{}, fmt.Errorf("create %s logs: %w", h.name, err)
		}
		cmd.Stdout = logFiles.stdoutFile
		cmd.Stderr = logFiles.stderrFile
		return logFiles, nil
	case StdioCapture:
		cmd.Stdout = cfg.Stdout
		cmd.Stderr = cfg.Stderr
	case StdioDiscard:
		// Leave both nil; os/exec connects them to the null device.
	}
	return LogFiles{}, nil
}

// Wait blocks until the process exits or ctx is canceled, then returns the
// process's wait error: nil for a zero exit, an *exec.ExitError otherwise.
// Many goroutines may Wait on one handle; all see the same result. Returns
// ErrNotStarted when Start has not run.
func (h *Handle) Wait(ctx context.Context) error {
	if h.exited == nil {
		return ErrNotStarted
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.exited:
		return h.waitErr
	}
}

// Finish clears the running state and closes log files after the process
// has been observed to exit on its own (Wait returned). It skips the signal
// sequence Stop runs, so calling it while the process is still alive leaks
// a running child. The Exited channel and Wait result stay readable until
// the next Start.
func (h *Handle) Finish() {
	h.cmd = nil
	h.logFiles.Close()
}

// Stop terminates the process with the given timeout. After Stop returns,
// IsStarted reports false regardless of whether the stop succeeded, because
// the process is no longer in a known-running state. The Exited channel and
// Wait result stay readable until the next Start.
//
// Safe to call when no process is running; returns nil immediately then.
func (h *Handle) Stop(timeout time.Duration) error {
	if h.cmd == nil || h.cmd.Process == nil {
		h.cmd = nil
		return nil
	}
	pid := h.cmd.Process.Pid
	err := stopWithExited(h.cmd, h.exited, func() error { return h.waitErr }, timeout, h.name)
	if err != nil {
		h.log.Warn("process stop failed; process may be orphaned",
			"process", h.name, "pid", pid, "error", err)
	}
	h.cmd = nil
	return err
}

// Close closes log file handles. If the process is still running (Stop was
// not called first), Close logs a warning and stops it automatically to
// prevent leaks. Callers should always Stop before Close; the auto-stop is a
// safety net, not an intended code path.
//
// If the auto-stop fails, Close still closes the log files. A process that
// could not be stopped then keeps running with closed stdio handles, and its
// later writes fail with EBADF.
func (h *Handle) Close() {
	if h.cmd != nil {
		h.log.Warn("spawn.Close called without Stop; stopping automatically",
			"process", h.name)
		timeout := h.stopTimeout
		if timeout <= 0 {
			timeout = DefaultStopTimeout
		}
		// Best-effort; Close has no error return and changing that would
		// break the Stoppable contract.
		if err := h.Stop(timeout); err != nil {
			h.log.Warn("auto-stop during Close failed",
				"process", h.name, "error", err)
		}
	}
	h.logFiles.Close()
}
