//go:build integration

// Package testutil provides shared helpers for integration test packages.
package testutil

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync/atomic"

	git "github.com/KeenNjupt/git"
)

// nameCounter is an atomic counter used by UniqueName to generate names
// that are unique across parallel test goroutines.
var nameCounter atomic.Int64

// UniqueName returns a name that is unique across all parallel tests. It
// combines the given prefix with a monotonically increasing counter value.
// Use it for lock files, journal paths, and service names.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, nameCounter.Add(1))
}

// SetupTestLogging configures slog based on the GIT_LOG_LEVEL environment
// variable. Unset or unparseable values fall back to INFO.
func SetupTestLogging() {
	levelStr := os.Getenv("GIT_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "INFO"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	git.SetLogger(slog.Default().With("component", "git"))
}

// RequireBinariesOrExit checks that the POSIX tools the integration suite
// spawns are available, exiting with a clear message when one is missing.
func RequireBinariesOrExit() {
	for _, bin := range []string{"sh", "sleep", "cat", "env"} {
		if _, err := exec.LookPath(bin); err != nil {
			fmt.Fprintf(os.Stderr, "%s binary not found in PATH; the integration suite spawns standard POSIX tools\n", bin)
			os.Exit(1)
		}
	}
}
