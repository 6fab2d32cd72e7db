// Package fileutil provides the small set of file operations the module
// needs for preparing directories and snapshotting journal databases.
//
// EnsureDir creates directories recursively. CopyFile is a plain copy, and
// CopySnapshot writes through a temp file with fsync and rename so a crash
// mid-copy never leaves a half-written snapshot behind.
package fileutil
