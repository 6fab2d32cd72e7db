package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCopyFile(t *testing.T) {
	t.Parallel()

	t.Run("copies content", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		src := filepath.Join(base, "src.txt")
		dst := filepath.Join(base, "sub", "dst.txt")
		if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
			t.Fatalf("write source: %v", err)
		}

		if err := CopyFile(src, dst); err != nil {
			t.Fatalf("CopyFile() error: %v", err)
		}

		got, err := os.ReadFile(dst)
		if err != nil {
			t.Fatalf("read destination: %v", err)
		}
		if string(got) != "payload" {
			t.Errorf("destination content = %q, want %q", got, "payload")
		}
	})

	t.Run("truncates existing destination", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		src := filepath.Join(base, "src.txt")
		dst := filepath.Join(base, "dst.txt")
		if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
			t.Fatalf("write source: %v", err)
		}
		if err := os.WriteFile(dst, []byte("previous longer content"), 0o644); err != nil {
			t.Fatalf("write destination: %v", err)
		}

		if err := CopyFile(src, dst); err != nil {
			t.Fatalf("CopyFile() error: %v", err)
		}

		got, _ := os.ReadFile(dst)
		if string(got) != "new" {
			t.Errorf("destination content = %q, want %q", got, "new")
		}
	})

	t.Run("empty paths", func(t *testing.T) {
		t.Parallel()

		if err := CopyFile("", "dst"); !errors.Is(err, ErrEmptySrc) {
			t.Errorf("CopyFile(\"\", dst) error = %v, want ErrEmptySrc", err)
		}
		if err := CopyFile("src", ""); !errors.Is(err, ErrEmptyDst) {
			t.Errorf("CopyFile(src, \"\") error = %v, want ErrEmptyDst", err)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()

		err := CopyFile(filepath.Join(base, "absent"), filepath.Join(base, "dst"))
		if err == nil {
			t.Error("CopyFile() with missing source succeeded, want error")
		}
	})
}

func TestCopySnapshot(t *testing.T) {
	t.Parallel()

	t.Run("copies content with tight permissions", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		src := filepath.Join(base, "journal.db")
		dst := filepath.Join(base, "backup", "journal.db")
		if err := os.WriteFile(src, []byte("sqlite payload"), 0o644); err != nil {
			t.Fatalf("write source: %v", err)
		}

		if err := CopySnapshot(src, dst); err != nil {
			t.Fatalf("CopySnapshot() error: %v", err)
		}

		got, err := os.ReadFile(dst)
		if err != nil {
			t.Fatalf("read destination: %v", err)
		}
		if string(got) != "sqlite payload" {
			t.Errorf("destination content = %q, want %q", got, "sqlite payload")
		}

		if runtime.GOOS != "windows" {
			info, err := os.Stat(dst)
			if err != nil {
				t.Fatalf("stat destination: %v", err)
			}
			if perm := info.Mode().Perm(); perm != 0o600 {
				t.Errorf("destination mode = %o, want 600", perm)
			}
		}
	})

	t.Run("leaves no temp file behind", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		src := filepath.Join(base, "src.db")
		dst := filepath.Join(base, "dst.db")
		if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
			t.Fatalf("write source: %v", err)
		}

		if err := CopySnapshot(src, dst); err != nil {
			t.Fatalf("CopySnapshot() error: %v", err)
		}

		entries, err := os.ReadDir(base)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		for _, e := range entries {
			if e.Name() != "src.db" && e.Name() != "dst.db" {
				t.Errorf("unexpected leftover entry %q", e.Name())
			}
		}
	})

	t.Run("empty paths", func(t *testing.T) {
		t.Parallel()

		if err := CopySnapshot("", "dst"); !errors.Is(err, ErrEmptySrc) {
			t.Errorf("CopySnapshot(\"\", dst) error = %v, want ErrEmptySrc", err)
		}
		if err := CopySnapshot("src", ""); !errors.Is(err, ErrEmptyDst) {
			t.Errorf("CopySnapshot(src, \"\") error = %v, want ErrEmptyDst", err)
		}
	})
}
