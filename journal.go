package git

import (
	"context"

	"github.com/KeenNjupt/git/internal/journal"
	"github.com/KeenNjupt/git/internal/trace"
)

// Invocation is one recorded command run.
//
// Invocation is a type alias (not a named type) so the journal's row type
// is usable directly without field-by-field conversion between the public
// package and the storage layer.
type Invocation = journal.Invocation

// HashArgv computes the deterministic short hash the journal indexes
// invocations by: the first 16 hex characters of a SHA256 over the argv
// elements with NUL separators, so element boundaries matter. Use it with
// CountByHash to ask "how often did exactly this command line run".
func HashArgv(argv []string) string {
	return journal.HashArgv(argv)
}

// Journal is an append-mostly history of completed runs backed by one local
// SQLite file. Wire it into commands with WithJournal, or record entries
// directly with Record.
//
// Reads and writes may come from multiple goroutines; Close must not race
// with other calls.
//
// The inner journal is stored as a named (unexported) field rather than
// embedded to keep internal types out of the public method set.
type Journal struct {
	j *journal.Journal
}

// OpenJournal opens (creating as needed) the journal database at path,
// applying the schema and the WAL/busy-timeout pragmas a shared local
// history file needs.
func OpenJournal(ctx context.Context, path string) (*Journal, error) {
	inner, err := journal.Open(ctx, path, trace.Logger())
	if err != nil {
		return nil, err
	}
	return &Journal{j: inner}, nil
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.j.Path()
}

// Record stores inv and returns its assigned ID. The argv hash is computed
// from inv.Argv; a zero StartedAt is replaced with the current time.
func (j *Journal) Record(ctx context.Context, inv Invocation) (int64, error) {
	return j.j.Record(ctx, inv)
}

// Recent returns up to limit invocations, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	return j.j.Recent(ctx, limit)
}

// CountByHash returns how many recorded invocations carry the given argv
// hash. See HashArgv.
func (j *Journal) CountByHash(ctx context.Context, hash string) (int64, error) {
	return j.j.CountByHash(ctx, hash)
}

// Prune deletes all but the newest keep invocations and returns the number
// of rows removed. keep of zero empties the journal.
func (j *Journal) Prune(ctx context.Context, keep int) (int64, error) {
	return j.j.Prune(ctx, keep)
}

// SnapshotTo writes a consistent copy of the journal database to dst,
// taking a cross-process file lock and checkpointing the WAL first so the
// copy is self-contained.
func (j *Journal) SnapshotTo(ctx context.Context, dst string) error {
	return j.j.SnapshotTo(ctx, dst)
}

// Close releases the database. Further calls on the journal return
// ErrJournalClosed. Close is idempotent.
func (j *Journal) Close() error {
	return j.j.Close()
}
