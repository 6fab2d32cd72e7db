package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directories", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		dir := filepath.Join(base, "logs", "svc", "0")

		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir() error: %v", err)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat after EnsureDir: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("idempotent on existing directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir() on existing dir error: %v", err)
		}
	})

	t.Run("fails when path is a file", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		file := filepath.Join(base, "occupied")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}

		if err := EnsureDir(file); err == nil {
			t.Error("EnsureDir() over a file succeeded, want error")
		}
	})
}

func TestEnsureDirForFile(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	file := filepath.Join(base, "journal", "invocations.db")

	if err := EnsureDirForFile(file); err != nil {
		t.Fatalf("EnsureDirForFile() error: %v", err)
	}

	info, err := os.Stat(filepath.Dir(file))
	if err != nil {
		t.Fatalf("stat parent: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected parent directory, got file")
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("EnsureDirForFile() created the file itself")
	}
}
