package spawn

import (
	"errors"
	"io"

	"github.com/KeenNjupt/git/internal/sentinel"
)

// ErrEmptyArgv is returned when a Config carries no argv elements. A command
// needs at least the program name.
const ErrEmptyArgv = sentinel.Error("argv must not be empty")

// ErrAlreadyStarted is returned when Start is called on a handle that is
// already running. Callers must Stop the process before starting it again.
const ErrAlreadyStarted = sentinel.Error("process already started")

// ErrNotStarted is returned when Wait is called before Start.
const ErrNotStarted = sentinel.Error("process not started")

// ErrEmptyLogDir is returned when StdioFiles is selected without a log
// directory to write into.
const ErrEmptyLogDir = sentinel.Error("log directory must not be empty")

// StdioMode selects where a spawned process's stdout and stderr go.
type StdioMode int

const (
	// StdioDiscard drops all output. This is the zero value.
	StdioDiscard StdioMode = iota

	// StdioInherit attaches the child to the parent's stdout and stderr.
	StdioInherit

	// StdioFiles redirects stdout and stderr into per-process log files
	// under Config.LogDir.
	StdioFiles

	// StdioCapture copies stdout and stderr into the writers supplied in
	// Config. A nil writer discards that stream.
	StdioCapture
)

// String returns the mode name for logs and error messages.
func (m StdioMode) String() string {
	switch m {
	case StdioDiscard:
		return "discard"
	case StdioInherit:
		return "inherit"
	case StdioFiles:
		return "files"
	case StdioCapture:
		return "capture"
	default:
		return "unknown"
	}
}

// IsValid reports whether m is one of the defined modes.
func (m StdioMode) IsValid() bool {
	return m >= StdioDiscard && m <= StdioCapture
}

// Config describes one process launch. The zero value is not usable: Argv
// must carry at least the program name.
type Config struct {
	Argv []string // program name and arguments
	Dir  string   // working directory; empty inherits the parent's
	Env  []string // environment in key=value form; nil inherits the parent's

	Stdin io.Reader // nil attaches no stdin

	Stdio  StdioMode
	LogDir string    // StdioFiles: directory receiving <name>-stdout.log and <name>-stderr.log
	Stdout io.Writer // StdioCapture: stdout destination
	Stderr io.Writer // StdioCapture: stderr destination
}

// Validate checks the configuration and reports every violation at once.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Argv) == 0 {
		errs = append(errs, ErrEmptyArgv)
	} else if c.Argv[0] == "" {
		errs = append(errs, errors.New("argv[0] must not be empty"))
	}
	if !c.Stdio.IsValid() {
		errs = append(errs, errors.New("unknown stdio mode"))
	}
	if c.Stdio == StdioFiles && c.LogDir == "" {
		errs = append(errs, ErrEmptyLogDir)
	}
	return errors.Join(errs...)
}

// ArgvStrings converts a nil-terminated argv view into the plain string
// slice that os/exec expects, stopping at the first nil entry. Entries past
// the terminator are ignored, matching how an execve-style consumer would
// scan the array.
func ArgvStrings(view []*string) []string {
	out := make([]string, 0, len(view))
	for _, p := range view {
		if p == nil {
			break
		}
		out = append(out, *p)
	}
	return out
}
