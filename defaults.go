package git

import (
	"time"

	"github.com/KeenNjupt/git/internal/spawn"
)

// Default configuration values for NewCommand and NewService.
// These constants are exported so callers can reference the defaults
// when building custom configurations relative to them (e.g.,
// 2 * DefaultReadyTimeout).
const (
	// DefaultStopTimeout is the time allowed for a process's
	// SIGTERM-then-SIGKILL shutdown sequence when no explicit timeout is
	// configured via WithStopTimeout or WithServiceStopTimeout.
	DefaultStopTimeout = spawn.DefaultStopTimeout

	// DefaultStdio is the stdio routing for commands that configure none:
	// the child shares the parent's stdout and stderr, matching how a
	// shell-spawned process behaves.
	DefaultStdio = StdioInherit

	// DefaultReadyInterval is the interval between consecutive TCP
	// connection attempts while waiting for a service to become ready.
	// 50ms keeps the post-listen latency low without busy-spinning against
	// a service that needs seconds to bind.
	DefaultReadyInterval = 50 * time.Millisecond

	// DefaultReadyTimeout is the overall time allowed for a service to
	// start accepting connections. Local daemons typically listen within a
	// second or two; 30 seconds leaves room for slow CI machines.
	DefaultReadyTimeout = 30 * time.Second
)
