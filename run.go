package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/KeenNjupt/git/internal/journal"
	"github.com/KeenNjupt/git/internal/lockfile"
	"github.com/KeenNjupt/git/internal/spawn"
	"github.com/KeenNjupt/git/internal/trace"
)

// Result describes one completed run.
type Result struct {
	// ExitCode is the process exit status: 0 for success, the exit code for
	// a plain non-zero exit, or -1 when the process was killed by a signal.
	ExitCode int

	// Duration is the wall-clock time from Start to process exit.
	Duration time.Duration

	// StdoutLog and StderrLog are the log file paths when the command ran
	// with StdioFiles, empty otherwise.
	StdoutLog string
	StderrLog string
}

// Command runs one process built from a Strvec argv. NewCommand snapshots
// the vector, so the vector stays usable (and mutable) afterwards; the
// first element is the program, resolved through PATH the way os/exec
// resolves it.
//
// Lifecycle: NewCommand → Start → Wait (or the Run convenience for both),
// with Stop available to terminate a running process early. A Command is
// single-use: once its process has run, create a new Command to run again.
//
// A Command is not safe for concurrent use; confine it to one goroutine.
type Command struct {
	cfg  commandConfig
	argv []string
	log  *slog.Logger

	handle    spawn.Handle
	lock      *lockfile.Lock
	startedAt time.Time

	finished bool
	result   Result
	waitErr  error
}

// Command creates a Command from the vector's current contents. It is
// shorthand for NewCommand(v, opts...).
func (v *Strvec) Command(opts ...CommandOption) (*Command, error) {
	return NewCommand(v, opts...)
}

// NewCommand creates a Command from argv's current contents. The vector is
// snapshotted: later mutations do not affect the command. Returns
// ErrEmptyArgv when the vector is nil or holds no elements.
//
// Panics if any option receives an invalid value. See individual With*
// functions for constraints.
func NewCommand(argv *Strvec, opts ...CommandOption) (*Command, error) {
	if argv == nil || argv.Count() == 0 {
		return nil, fmt.Errorf("new command: %w", ErrEmptyArgv)
	}

	cfg := defaultCommandConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Snapshot through the terminated view: the spawn layer scans until the
	// nil terminator the way an execve-style consumer would, never trusting
	// the count.
	snapshot := spawn.ArgvStrings(argv.Argv())
	name := cfg.name
	if name == "" {
		name = filepath.Base(snapshot[0])
	}
	log := trace.Logger().With("command", name)

	return &Command{
		cfg:    cfg,
		argv:   snapshot,
		log:    log,
		handle: spawn.New(name, log, cfg.stopTimeout),
	}, nil
}

// Name returns the process name used in logs and error messages.
func (c *Command) Name() string {
	return c.handle.Name()
}

// Argv returns a copy of the snapshotted argument vector.
func (c *Command) Argv() []string {
	out := make([]string, len(c.argv))
	copy(out, c.argv)
	return out
}

// Pid returns the process ID, or zero when no process is running.
func (c *Command) Pid() int {
	return c.handle.Pid()
}

// Start launches the process. When a run lock is configured, Start first
// blocks until the lock is acquired or ctx is done. Returns
// ErrAlreadyStarted if the process is already running.
func (c *Command) Start(ctx context.Context) error {
	if c.handle.IsStarted() {
		return ErrAlreadyStarted
	}

	if c.cfg.lockPath != "" && c.lock == nil {
		lock, err := lockfile.Acquire(ctx, c.cfg.lockPath, c.log)
		if err != nil {
			return fmt.Errorf("start %s: %w", c.Name(), err)
		}
		c.lock = lock
	}

	c.startedAt = time.Now()
	err := c.handle.Start(ctx, spawn.Config{
		Argv:   c.argv,
		Dir:    c.cfg.dir,
		Env:    c.environ(),
		Stdin:  c.cfg.stdin,
		Stdio:  c.cfg.stdio,
		LogDir: c.cfg.logDir,
		Stdout: c.cfg.stdout,
		Stderr: c.cfg.stderr,
	})
	if err != nil {
		c.releaseLock()
		return err
	}
	return nil
}

// Wait blocks until the process exits or ctx is done, then returns the
// run's Result. A non-zero exit code is reported through the Result, not as
// an error; the error return covers lifecycle problems (ErrNotStarted, a
// done context while the process still runs) only.
//
// On exit, Wait records the run in the configured journal, releases the run
// lock, and closes log files. Calling Wait again returns the same Result.
func (c *Command) Wait(ctx context.Context) (Result, error) {
	if c.finished {
		return c.result, c.waitErr
	}

	err := c.handle.Wait(ctx)
	select {
	case <-c.handle.Exited():
	default:
		// Never started, or ctx expired with the process still running. In
		// the latter case the run stays live and a later Wait or Stop
		// finishes it.
		return Result{}, fmt.Errorf("wait for %s: %w", c.Name(), err)
	}

	// The exit timestamp comes from the reaping goroutine, so the duration
	// ends at process exit even when Wait is called long after.
	res := Result{
		Duration:  c.handle.ExitedAt().Sub(c.startedAt),
		StdoutLog: c.handle.StdoutLogPath(),
		StderrLog: c.handle.StderrLogPath(),
	}
	res.ExitCode, c.waitErr = splitExit(err)

	c.record(ctx, res, err)
	c.releaseLock()
	c.handle.Finish()

	c.finished = true
	c.result = res
	return res, c.waitErr
}

// Run starts the process and waits for it to finish.
func (c *Command) Run(ctx context.Context) (Result, error) {
	if err := c.Start(ctx); err != nil {
		return Result{}, err
	}
	return c.Wait(ctx)
}

// Stop terminates a running process with the configured stop timeout, then
// releases the run lock and closes log files. Safe to call when no process
// is running.
func (c *Command) Stop() error {
	err := c.handle.Stop(c.cfg.stopTimeout)
	c.handle.Close()
	c.releaseLock()
	return err
}

// Close releases resources still held by the command: log file handles, the
// run lock, and — as a safety net — a process that was never stopped.
// Callers that complete a Wait need no Close.
func (c *Command) Close() {
	c.handle.Close()
	c.releaseLock()
}

// environ resolves the child environment from the configured base and extra
// entries. A nil return inherits the parent environment.
func (c *Command) environ() []string {
	if c.cfg.env == nil && len(c.cfg.extraEnv) == 0 {
		return nil
	}
	base := c.cfg.env
	if base == nil {
		base = os.Environ()
	}
	env := make([]string, 0, len(base)+len(c.cfg.extraEnv))
	env = append(env, base...)
	env = append(env, c.cfg.extraEnv...)
	return env
}

// record writes the completed run to the configured journal. Failures are
// logged, never returned: a broken history file must not fail the run.
func (c *Command) record(ctx context.Context, res Result, waitErr error) {
	if c.cfg.journal == nil {
		return
	}
	errText := ""
	if waitErr != nil {
		errText = waitErr.Error()
	}
	_, err := c.cfg.journal.Record(ctx, journal.Invocation{
		Argv:      c.argv,
		Dir:       c.cfg.dir,
		ExitCode:  res.ExitCode,
		Error:     errText,
		StartedAt: c.startedAt,
		Duration:  res.Duration,
	})
	if err != nil {
		c.log.Warn("journal record failed", "error", err)
	}
}

// releaseLock releases a held run lock. Safe to call when none is held.
func (c *Command) releaseLock() {
	if c.lock != nil {
		c.lock.Release()
		c.lock = nil
	}
}

// splitExit translates a cmd.Wait error into an exit code plus the error a
// caller should see. A plain non-zero exit is data, not an error; anything
// else (I/O failure, signal kill) passes through.
func splitExit(waitErr error) (int, error) {
	if waitErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code := exitErr.ExitCode()
		if code >= 0 {
			return code, nil
		}
		// Killed by a signal; surface the error alongside the -1 code.
		return code, waitErr
	}
	return -1, waitErr
}
