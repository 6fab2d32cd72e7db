package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"

	"github.com/KeenNjupt/git/internal/fileutil"
	"github.com/KeenNjupt/git/internal/lockfile"
	"github.com/KeenNjupt/git/internal/sentinel"
)

// ErrClosed is returned by operations on a closed journal.
const ErrClosed = sentinel.Error("journal is closed")

// ErrEmptyArgv is returned when Record is called with no argv elements.
const ErrEmptyArgv = sentinel.Error("argv must not be empty")

// ErrLimitNotPositive is returned when Recent is called with a non-positive
// limit.
const ErrLimitNotPositive = sentinel.Error("limit must be positive")

// ErrNegativeKeep is returned when Prune is called with a negative keep
// count.
const ErrNegativeKeep = sentinel.Error("keep must not be negative")

// schema creates the invocation table and its hash index. Executed on every
// Open; IF NOT EXISTS makes it idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	argv TEXT NOT NULL,
	argv_hash TEXT NOT NULL,
	dir TEXT NOT NULL DEFAULT '',
	exit_code INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	started_at_ms INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_invocations_argv_hash ON invocations(argv_hash);
`

// Invocation is one recorded command run. ID and ArgvHash are assigned by
// Record; callers fill the rest.
type Invocation struct {
	ID        int64
	Argv      []string
	ArgvHash  string
	Dir       string
	ExitCode  int
	Error     string // error text of the run, empty on success
	StartedAt time.Time
	Duration  time.Duration
}

// Journal is an append-mostly store of invocations backed by one SQLite
// file. Reads and writes may come from multiple goroutines; Close must not
// race with other calls.
type Journal struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open opens (creating as needed) the journal database at path and applies
// the schema. A nil logger falls back to slog.Default().
func Open(ctx context.Context, path string, logger *slog.Logger) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("open journal: path must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// WAL keeps concurrent readers off the writer's back, the busy timeout
	// covers snapshot checkpoints, and NORMAL synchronous is enough for a
	// local history file where losing the last write in a crash is
	// acceptable.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_pragma=synchronous(NORMAL)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Single connection — the journal is low-traffic and one connection
	// sidesteps SQLITE_BUSY between pooled writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	return &Journal{db: db, path: path, log: logger}, nil
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// Close releases the database. Further calls on the journal return
// ErrClosed. Close is idempotent.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	db := j.db
	j.db = nil
	if err := db.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}

// Record stores inv and returns its assigned ID. The argv hash is computed
// here; a caller-set ArgvHash is ignored. A zero StartedAt is replaced with
// the current time.
func (j *Journal) Record(ctx context.Context, inv Invocation) (int64, error) {
	if j.db == nil {
		return 0, ErrClosed
	}
	if len(inv.Argv) == 0 {
		return 0, fmt.Errorf("record invocation: %w", ErrEmptyArgv)
	}
	if inv.StartedAt.IsZero() {
		inv.StartedAt = time.Now()
	}

	argvJSON, err := json.Marshal(inv.Argv)
	if err != nil {
		return 0, fmt.Errorf("encode argv: %w", err)
	}

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO invocations (argv, argv_hash, dir, exit_code, error, started_at_ms, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(argvJSON),
		HashArgv(inv.Argv),
		inv.Dir,
		inv.ExitCode,
		inv.Error,
		inv.StartedAt.UnixMilli(),
		inv.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert invocation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("invocation id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit invocations, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		return nil, fmt.Errorf("recent invocations: %w", ErrLimitNotPositive)
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, argv, argv_hash, dir, exit_code, error, started_at_ms, duration_ms
		 FROM invocations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err() below catches read errors

	var out []Invocation
	for rows.Next() {
		var (
			inv        Invocation
			argvJSON   string
			startedMS  int64
			durationMS int64
		)
		if err := rows.Scan(&inv.ID, &argvJSON, &inv.ArgvHash, &inv.Dir,
			&inv.ExitCode, &inv.Error, &startedMS, &durationMS); err != nil {
			return nil, fmt.Errorf("scan invocation row: %w", err)
		}
		if err := json.Unmarshal([]byte(argvJSON), &inv.Argv); err != nil {
			return nil, fmt.Errorf("decode argv for invocation %d: %w", inv.ID, err)
		}
		inv.StartedAt = time.UnixMilli(startedMS)
		inv.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocation rows: %w", err)
	}
	return out, nil
}

// CountByHash returns how many recorded invocations carry the given argv
// hash.
func (j *Journal) CountByHash(ctx context.Context, hash string) (int64, error) {
	if j.db == nil {
		return 0, ErrClosed
	}
	var n int64
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invocations WHERE argv_hash = ?`, hash).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invocations by hash: %w", err)
	}
	return n, nil
}

// Prune deletes all but the newest keep invocations and returns the number
// of rows removed. keep of zero empties the journal.
func (j *Journal) Prune(ctx context.Context, keep int) (int64, error) {
	if j.db == nil {
		return 0, ErrClosed
	}
	if keep < 0 {
		return 0, fmt.Errorf("prune invocations: %w", ErrNegativeKeep)
	}

	res, err := j.db.ExecContext(ctx,
		`DELETE FROM invocations WHERE id NOT IN (
			SELECT id FROM invocations ORDER BY id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune invocations: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune result: %w", err)
	}
	if removed > 0 {
		j.log.Debug("journal pruned", "removed", removed, "keep", keep)
	}
	return removed, nil
}

// SnapshotTo writes a consistent copy of the journal database to dst. The
// copy is taken under an advisory file lock next to the database, after
// checkpointing the WAL so the main file holds every committed write. The
// snapshot lands atomically via temp-file-then-rename.
func (j *Journal) SnapshotTo(ctx context.Context, dst string) error {
	if j.db == nil {
		return ErrClosed
	}

	lock, err := lockfile.Acquire(ctx, j.path+".lock", j.log)
	if err != nil {
		return fmt.Errorf("snapshot journal: %w", err)
	}
	defer lock.Release()

	// Fold the WAL into the main database file so the copy below is
	// self-contained.
	if _, err := j.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE);`); err != nil {
		return fmt.Errorf("checkpoint journal: %w", err)
	}
	if err := fileutil.CopySnapshot(j.path, dst); err != nil {
		return fmt.Errorf("snapshot journal: %w", err)
	}
	return nil
}
