package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/KeenNjupt/git/internal/netutil"
	"github.com/KeenNjupt/git/internal/spawn"
	"github.com/KeenNjupt/git/internal/trace"
)

// readyDialTimeout is the per-attempt timeout for the TCP dial used in
// readiness checks. 1 second is generous for a localhost connection; early
// attempts that fail because the service is not yet listening return
// immediately with a connection-refused error, so this timeout only guards
// against pathological cases (e.g., SYN sent but no SYN-ACK).
const readyDialTimeout = time.Second

// PortRegistry tracks TCP ports reserved within this process so that
// concurrent services sharing one registry never receive the same port.
//
// PortRegistry is a type alias (not a named type) so that the underlying
// [netutil.PortRegistry] methods — Allocate, Release, Reserved — are part
// of the public API without redeclaration.
type PortRegistry = netutil.PortRegistry

// NewPortRegistry creates an empty PortRegistry using the module logger.
// Create one registry and share it across every service in the process.
func NewPortRegistry() *PortRegistry {
	return netutil.NewPortRegistry(trace.Logger())
}

// ArgvFunc builds a service's argument vector once its listen port is
// known. The returned vector is snapshotted by NewService; the function is
// called exactly once.
type ArgvFunc func(port int) *Strvec

// Compile-time interface satisfaction check.
var _ spawn.Stoppable = (*Service)(nil)

// Service manages a daemon-style child process that signals readiness by
// accepting TCP connections on its listen port. The argv is built from a
// Strvec after the port is resolved, so the port can be spliced into flags.
//
// Lifecycle: NewService → Start → WaitReady → Stop. A Service is not safe
// for concurrent use; Start, Stop, and Close must be serialized by the
// owner. WaitReady may run in another goroutine once Start has returned,
// which is how Group overlaps the readiness of several services.
type Service struct {
	name string
	cfg  serviceConfig
	argv []string
	port int
	log  *slog.Logger

	handle spawn.Handle
}

// NewService resolves the service's port, builds its argv, and returns a
// Service ready to start. With WithReservedPort the port is allocated here
// and stays registered until Stop; with WithServicePort the given port is
// used as-is. One of the two is required.
//
// Returns ErrEmptyArgv when build yields a nil or empty vector.
//
// Panics if any option receives an invalid value. See individual With*
// functions for constraints.
func NewService(name string, build ArgvFunc, opts ...ServiceOption) (*Service, error) {
	if name == "" {
		return nil, errors.New("new service: name must not be empty")
	}
	if build == nil {
		return nil, fmt.Errorf("new service %s: argv builder must not be nil", name)
	}

	cfg := defaultServiceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	port := cfg.port
	if cfg.ports != nil {
		allocated, err := cfg.ports.Allocate()
		if err != nil {
			return nil, fmt.Errorf("new service %s: %w", name, err)
		}
		port = allocated
	}
	if port <= 0 {
		return nil, fmt.Errorf("new service %s: no port configured; use WithServicePort or WithReservedPort", name)
	}

	argv := build(port)
	if argv == nil || argv.Count() == 0 {
		if cfg.ports != nil {
			cfg.ports.Release(port)
		}
		return nil, fmt.Errorf("new service %s: %w", name, ErrEmptyArgv)
	}

	log := trace.Logger().With("service", name)
	return &Service{
		name:   name,
		cfg:    cfg,
		argv:   spawn.ArgvStrings(argv.Argv()),
		port:   port,
		log:    log,
		handle: spawn.New(name, log, cfg.stopTimeout),
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	return s.name
}

// Port returns the resolved listen port.
func (s *Service) Port() int {
	return s.port
}

// Addr returns the loopback address the readiness probe dials.
func (s *Service) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

// Argv returns a copy of the built argument vector.
func (s *Service) Argv() []string {
	out := make([]string, len(s.argv))
	copy(out, s.argv)
	return out
}

// Start launches the service process. Output goes to per-process log files
// when WithServiceLogDir is configured, otherwise it is discarded. Returns
// ErrAlreadyStarted if the process is already running.
func (s *Service) Start(ctx context.Context) error {
	stdio := spawn.StdioDiscard
	if s.cfg.logDir != "" {
		stdio = spawn.StdioFiles
	}
	return s.handle.Start(ctx, spawn.Config{
		Argv:   s.argv,
		Dir:    s.cfg.dir,
		Env:    s.cfg.env,
		Stdio:  stdio,
		LogDir: s.cfg.logDir,
	})
}

// WaitReady polls the service's TCP port until it accepts a connection, the
// configured ready timeout elapses, or ctx is done. It aborts early with
// ErrProcessExited when the process dies first, e.g. from a port bind
// failure. Returns ErrNotStarted before Start.
func (s *Service) WaitReady(ctx context.Context) error {
	if !s.handle.IsStarted() {
		return fmt.Errorf("wait ready %s: %w", s.name, ErrNotStarted)
	}

	dialer := &net.Dialer{Timeout: readyDialTimeout}
	addr := s.Addr()
	if err := spawn.WaitReady(ctx, spawn.WaitReadyConfig{
		Interval:      s.cfg.readyInterval,
		Timeout:       s.cfg.readyTimeout,
		Name:          s.name,
		Port:          s.port,
		Logger:        s.log,
		ProcessExited: s.handle.Exited(),
	}, func(checkCtx context.Context, attempt int) (bool, error) {
		conn, err := dialer.DialContext(checkCtx, "tcp", addr)
		if err != nil {
			s.log.Debug("readiness attempt", "port", s.port, "attempt", attempt, "error", err)
			return false, nil // not listening yet
		}
		_ = conn.Close() // best-effort close of readiness check connection
		return true, nil
	}); err != nil {
		return fmt.Errorf("service %s not ready: %w", s.name, err)
	}
	return nil
}

// Exited returns a channel closed when the service process exits, or nil
// before Start.
func (s *Service) Exited() <-chan struct{} {
	return s.handle.Exited()
}

// Pid returns the process ID, or zero when no process is running.
func (s *Service) Pid() int {
	return s.handle.Pid()
}

// StdoutLogPath returns the stdout log file path, or "" when the service
// runs without a log directory.
func (s *Service) StdoutLogPath() string {
	return s.handle.StdoutLogPath()
}

// StderrLogPath returns the stderr log file path, or "" when the service
// runs without a log directory.
func (s *Service) StderrLogPath() string {
	return s.handle.StderrLogPath()
}

// Stop terminates the process with the given timeout and releases a
// registry-allocated port. A non-positive timeout uses the configured stop
// timeout. Safe to call when no process is running.
func (s *Service) Stop(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.cfg.stopTimeout
	}
	err := s.handle.Stop(timeout)
	s.releasePort()
	return err
}

// Close closes log file handles, stopping the process first if it is still
// running. Callers should Stop before Close; the auto-stop is a safety net.
func (s *Service) Close() {
	s.handle.Close()
	s.releasePort()
}

// releasePort returns a registry-allocated port. The resolved port value is
// kept, so Port and Addr keep reporting it after Stop; only the reservation
// is dropped. Safe to call when the port was fixed or already released.
func (s *Service) releasePort() {
	if s.cfg.ports != nil {
		s.cfg.ports.Release(s.port)
		s.cfg.ports = nil
	}
}
