package git

import (
	"fmt"
	"io"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("git: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("git: %s must not be empty", name))
	}
}

// commandConfig holds the resolved configuration for a Command.
type commandConfig struct {
	name        string
	dir         string
	env         []string // nil inherits the parent environment
	extraEnv    []string // appended to env (or to os.Environ when env is nil)
	stdin       io.Reader
	stdio       StdioMode
	logDir      string
	stdout      io.Writer
	stderr      io.Writer
	stopTimeout time.Duration
	lockPath    string
	journal     *Journal
}

// defaultCommandConfig returns a commandConfig populated with all default
// values. Both NewCommand and test helpers use this to avoid duplicating
// the default field assignments.
func defaultCommandConfig() commandConfig {
	return commandConfig{
		stdio:       DefaultStdio,
		stopTimeout: DefaultStopTimeout,
	}
}

// CommandOption configures a Command during construction via NewCommand.
// Each With* function returns a CommandOption that sets a specific field.
//
// Several With* functions panic on invalid input (empty paths, non-positive
// durations, unknown stdio modes). These panics are intentional: option
// values are typically compile-time constants or package-level variables, so
// an invalid value indicates a programmer error rather than a runtime
// condition. The pattern mirrors [regexp.MustCompile] — fail fast during
// initialization instead of returning errors that would be universally
// fatal anyway.
type CommandOption func(*commandConfig)

// WithName sets the process name used in logs, error messages, and log file
// names. The default is the base name of argv[0].
// Panics if name is empty.
func WithName(name string) CommandOption {
	requireNonEmpty("command name", name)
	return func(c *commandConfig) {
		c.name = name
	}
}

// WithDir sets the child's working directory. The default inherits the
// parent's.
// Panics if dir is empty.
func WithDir(dir string) CommandOption {
	requireNonEmpty("working directory", dir)
	return func(c *commandConfig) {
		c.dir = dir
	}
}

// WithEnv replaces the child's environment with the contents of env, one
// key=value element per entry. The vector's contents are snapshotted when
// the option is applied; later mutations of env do not affect the command.
// Without this option the child inherits the parent's environment.
//
// Panics if env is nil. An empty vector is allowed and yields a child with
// an empty environment.
func WithEnv(env *Strvec) CommandOption {
	if env == nil {
		panic("git: environment vector must not be nil")
	}
	snapshot := env.Strings()
	return func(c *commandConfig) {
		// Strings returns nil for an empty vector, but nil means "inherit"
		// in os/exec; pin an empty non-nil slice so replacement sticks.
		if snapshot == nil {
			snapshot = []string{}
		}
		c.env = snapshot
	}
}

// WithExtraEnv appends key=value entries to the child's environment on top
// of whatever base it gets: the vector from WithEnv, or the parent's
// environment when no base is configured. Later entries win over earlier
// ones under the usual execve last-wins rule.
// Panics if no entries are given.
func WithExtraEnv(kv ...string) CommandOption {
	if len(kv) == 0 {
		panic("git: extra environment entries must not be empty")
	}
	return func(c *commandConfig) {
		c.extraEnv = append(c.extraEnv, kv...)
	}
}

// WithStdin attaches r as the child's standard input. The default attaches
// no stdin.
func WithStdin(r io.Reader) CommandOption {
	return func(c *commandConfig) {
		c.stdin = r
	}
}

// WithStdio sets the stdout/stderr routing mode. StdioFiles additionally
// requires WithLogDir, and StdioCapture takes its writers from WithOutput.
//
// Default: StdioInherit.
//
// Panics if mode is not a defined StdioMode.
func WithStdio(mode StdioMode) CommandOption {
	if !mode.IsValid() {
		panic(fmt.Sprintf("git: unknown stdio mode %d", int(mode)))
	}
	return func(c *commandConfig) {
		c.stdio = mode
	}
}

// WithLogDir redirects the child's stdout and stderr into per-process log
// files under dir, creating it as needed. Implies StdioFiles; the file
// paths are reported in the run's Result.
// Panics if dir is empty.
func WithLogDir(dir string) CommandOption {
	requireNonEmpty("log directory", dir)
	return func(c *commandConfig) {
		c.stdio = StdioFiles
		c.logDir = dir
	}
}

// WithOutput copies the child's stdout and stderr into the given writers.
// Implies StdioCapture. A nil writer discards that stream.
func WithOutput(stdout, stderr io.Writer) CommandOption {
	return func(c *commandConfig) {
		c.stdio = StdioCapture
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithStopTimeout sets the time allowed for the SIGTERM-then-SIGKILL
// shutdown sequence when the command is stopped before exiting on its own.
//
// Default: DefaultStopTimeout.
//
// Panics if d <= 0.
func WithStopTimeout(d time.Duration) CommandOption {
	requirePositive("stop timeout", d)
	return func(c *commandConfig) {
		c.stopTimeout = d
	}
}

// WithRunLock serializes the run against other processes through an
// advisory file lock at path. Start blocks until the lock is acquired or
// its context is done; the lock is released when the run finishes. Use this
// when concurrent invocations share a working directory or journal across
// processes.
// Panics if path is empty.
func WithRunLock(path string) CommandOption {
	requireNonEmpty("run lock path", path)
	return func(c *commandConfig) {
		c.lockPath = path
	}
}

// WithJournal records the completed run in j: argv, working directory, exit
// code, start time, and duration. Journaling failures are logged, never
// returned — a broken history file must not fail the run itself.
// Panics if j is nil.
func WithJournal(j *Journal) CommandOption {
	if j == nil {
		panic("git: journal must not be nil")
	}
	return func(c *commandConfig) {
		c.journal = j
	}
}

// serviceConfig holds the resolved configuration for a Service.
type serviceConfig struct {
	dir           string
	env           []string
	logDir        string
	port          int
	ports         *PortRegistry
	readyInterval time.Duration
	readyTimeout  time.Duration
	stopTimeout   time.Duration
}

// defaultServiceConfig returns a serviceConfig populated with all default
// values.
func defaultServiceConfig() serviceConfig {
	return serviceConfig{
		readyInterval: DefaultReadyInterval,
		readyTimeout:  DefaultReadyTimeout,
		stopTimeout:   DefaultStopTimeout,
	}
}

// ServiceOption configures a Service during construction via NewService.
// The same panic-on-invalid convention as CommandOption applies.
type ServiceOption func(*serviceConfig)

// WithServiceDir sets the service's working directory.
// Panics if dir is empty.
func WithServiceDir(dir string) ServiceOption {
	requireNonEmpty("working directory", dir)
	return func(c *serviceConfig) {
		c.dir = dir
	}
}

// WithServiceEnv replaces the service's environment with the contents of
// env, snapshotted when the option is applied.
// Panics if env is nil.
func WithServiceEnv(env *Strvec) ServiceOption {
	if env == nil {
		panic("git: environment vector must not be nil")
	}
	snapshot := env.Strings()
	return func(c *serviceConfig) {
		if snapshot == nil {
			snapshot = []string{}
		}
		c.env = snapshot
	}
}

// WithServiceLogDir redirects the service's stdout and stderr into
// per-process log files under dir. Without it output is discarded, since a
// daemon inheriting the parent's terminal is rarely wanted.
// Panics if dir is empty.
func WithServiceLogDir(dir string) ServiceOption {
	requireNonEmpty("log directory", dir)
	return func(c *serviceConfig) {
		c.logDir = dir
	}
}

// WithServicePort pins the service to a fixed listen port. The readiness
// probe dials this port. Mutually exclusive with WithReservedPort; the last
// option applied wins.
// Panics if port <= 0.
func WithServicePort(port int) ServiceOption {
	requirePositive("service port", port)
	return func(c *serviceConfig) {
		c.port = port
		c.ports = nil
	}
}

// WithReservedPort makes NewService allocate a free loopback port from r
// and hand it to the argv builder. The port is registered for the service's
// lifetime and released back to r on Stop, so concurrent services sharing
// one registry never collide.
// Panics if r is nil.
func WithReservedPort(r *PortRegistry) ServiceOption {
	if r == nil {
		panic("git: port registry must not be nil")
	}
	return func(c *serviceConfig) {
		c.ports = r
		c.port = 0
	}
}

// WithReadyInterval sets the interval between readiness probe attempts.
//
// Default: DefaultReadyInterval.
//
// Panics if d <= 0.
func WithReadyInterval(d time.Duration) ServiceOption {
	requirePositive("ready interval", d)
	return func(c *serviceConfig) {
		c.readyInterval = d
	}
}

// WithReadyTimeout sets the overall time WaitReady allows for the service
// to start accepting connections.
//
// Default: DefaultReadyTimeout.
//
// Panics if d <= 0.
func WithReadyTimeout(d time.Duration) ServiceOption {
	requirePositive("ready timeout", d)
	return func(c *serviceConfig) {
		c.readyTimeout = d
	}
}

// WithServiceStopTimeout sets the time allowed for the service's
// SIGTERM-then-SIGKILL shutdown sequence.
//
// Default: DefaultStopTimeout.
//
// Panics if d <= 0.
func WithServiceStopTimeout(d time.Duration) ServiceOption {
	requirePositive("stop timeout", d)
	return func(c *serviceConfig) {
		c.stopTimeout = d
	}
}
