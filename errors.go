package git

import (
	"github.com/KeenNjupt/git/internal/journal"
	"github.com/KeenNjupt/git/internal/spawn"
)

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrEmptyArgv is returned by NewCommand and NewService when the
	// supplied vector carries no elements. A command needs at least the
	// program name.
	ErrEmptyArgv = spawn.ErrEmptyArgv

	// ErrAlreadyStarted is returned by Start when the process is already
	// running. Stop it before starting again.
	ErrAlreadyStarted = spawn.ErrAlreadyStarted

	// ErrNotStarted is returned by Wait and WaitReady when Start has not
	// been called.
	ErrNotStarted = spawn.ErrNotStarted

	// ErrProcessExited is returned by WaitReady when the service process
	// exits before it ever accepts a connection.
	ErrProcessExited = spawn.ErrProcessExited

	// ErrJournalClosed is returned by operations on a closed Journal.
	ErrJournalClosed = journal.ErrClosed
)
