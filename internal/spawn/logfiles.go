package spawn

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KeenNjupt/git/internal/fileutil"
)

// LogFiles manages the stdout/stderr file handles of a process started with
// StdioFiles. The zero value is inert: Close is a no-op and both path
// accessors return "".
type LogFiles struct {
	stdoutFile *os.File
	stderrFile *os.File
	dir        string
	stdoutName string // e.g. "pager-stdout.log"
	stderrName string // e.g. "pager-stderr.log"
}

// NewLogFiles creates log files for a process under dir, creating the
// directory as needed. The processName shapes the file names, e.g. "pager"
// yields "pager-stdout.log" and "pager-stderr.log".
func NewLogFiles(dir, processName string) (LogFiles, error) {
	l := LogFiles{
		dir:        dir,
		stdoutName: processName + "-stdout.log",
		stderrName: processName + "-stderr.log",
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		return LogFiles{}, err
	}
	if err := l.create(); err != nil {
		return LogFiles{}, err
	}
	return l, nil
}

// create opens both log files. They are assigned to the struct only after
// both creates succeed.
func (l *LogFiles) create() error {
	stdoutFile, err := os.Create(l.StdoutPath())
	if err != nil {
		return fmt.Errorf("create stdout log: %w", err)
	}
	stderrFile, err := os.Create(l.StderrPath())
	if err != nil {
		_ = stdoutFile.Close()
		return fmt.Errorf("create stderr log: %w", err)
	}
	l.stdoutFile = stdoutFile
	l.stderrFile = stderrFile
	return nil
}

// Close closes both file handles and nils them to prevent double-close.
func (l *LogFiles) Close() {
	if l.stdoutFile != nil {
		_ = l.stdoutFile.Close()
		l.stdoutFile = nil
	}
	if l.stderrFile != nil {
		_ = l.stderrFile.Close()
		l.stderrFile = nil
	}
}

// StdoutPath returns the stdout log file path, or "" for the zero value.
func (l *LogFiles) StdoutPath() string {
	if l.dir == "" {
		return ""
	}
	return filepath.Join(l.dir, l.stdoutName)
}

// StderrPath returns the stderr log file path, or "" for the zero value.
func (l *LogFiles) StderrPath() string {
	if l.dir == "" {
		return ""
	}
	return filepath.Join(l.dir, l.stderrName)
}
