package git

import "github.com/KeenNjupt/git/internal/spawn"

// StdioMode selects where a spawned process's stdout and stderr go. See the
// individual constant documentation for each mode's behavior.
//
// StdioMode is a type alias (not a named type) so that the underlying
// [spawn.StdioMode] methods are part of the public API:
//
//   - IsValid reports whether the value is a recognized mode.
//   - String returns the mode name (implements [fmt.Stringer]).
//
// This is intentional: callers can validate and print mode values without
// the public package needing to redeclare these methods.
//
// Audit: new methods added to spawn.StdioMode automatically become part of
// the public API through this alias.
type StdioMode = spawn.StdioMode

const (
	// StdioDiscard drops all child output.
	StdioDiscard = spawn.StdioDiscard

	// StdioInherit attaches the child to the parent's stdout and stderr.
	// This is the default for commands.
	StdioInherit = spawn.StdioInherit

	// StdioFiles redirects stdout and stderr into per-process log files
	// under the directory given to WithLogDir; the paths appear in the
	// run's Result.
	StdioFiles = spawn.StdioFiles

	// StdioCapture copies stdout and stderr into the writers supplied via
	// WithOutput. A nil writer discards that stream.
	StdioCapture = spawn.StdioCapture
)
