// Package journal persists a history of command invocations in a local
// SQLite database.
//
// Each recorded invocation stores the full argv, a short content hash of it,
// the working directory, exit code, and timing. The hash makes "how often
// did this exact command run" queries cheap without comparing whole argv
// arrays. The database is opened in WAL mode with a single connection, and
// SnapshotTo produces a consistent copy under an advisory file lock.
package journal
