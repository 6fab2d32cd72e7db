package git_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	git "github.com/KeenNjupt/git"
)

// sleeperArgv builds an argv for a long-lived process that never listens;
// tests pair it with an in-test TCP listener on the service's port so the
// readiness probe has something real to dial.
func sleeperArgv(int) *git.Strvec {
	return git.NewStrvec("sleep", "60")
}

// listenOn opens a TCP listener on the given loopback port and closes it
// when the test ends.
func listenOn(t *testing.T, port int) net.Listener {
	t.Helper()

	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("listen on %d: %v", port, err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	if _, err := git.NewService("", sleeperArgv, git.WithServicePort(1234)); err == nil {
		t.Error("empty name accepted")
	}
	if _, err := git.NewService("svc", nil, git.WithServicePort(1234)); err == nil {
		t.Error("nil argv builder accepted")
	}
	if _, err := git.NewService("svc", sleeperArgv); err == nil {
		t.Error("missing port configuration accepted")
	}

	empty := func(int) *git.Strvec { return &git.Strvec{} }
	if _, err := git.NewService("svc", empty, git.WithServicePort(1234)); !errors.Is(err, git.ErrEmptyArgv) {
		t.Errorf("empty argv error = %v, want ErrEmptyArgv", err)
	}
}

func TestNewServiceReleasesPortOnEmptyArgv(t *testing.T) {
	t.Parallel()

	reg := git.NewPortRegistry()
	var seen int
	empty := func(port int) *git.Strvec {
		seen = port
		return nil
	}
	if _, err := git.NewService("svc", empty, git.WithReservedPort(reg)); !errors.Is(err, git.ErrEmptyArgv) {
		t.Fatalf("error = %v, want ErrEmptyArgv", err)
	}
	if seen == 0 {
		t.Fatal("argv builder never saw an allocated port")
	}
	if reg.Reserved(seen) {
		t.Errorf("port %d still reserved after failed construction", seen)
	}
}

func TestNewServiceBuildsArgvWithPort(t *testing.T) {
	t.Parallel()

	reg := git.NewPortRegistry()
	build := func(port int) *git.Strvec {
		var argv git.Strvec
		argv.Push("daemon")
		argv.Pushf("--listen=127.0.0.1:%d", port)
		return &argv
	}
	svc, err := git.NewService("daemon", build, git.WithReservedPort(reg))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	if svc.Port() <= 0 {
		t.Fatalf("Port() = %d, want > 0", svc.Port())
	}
	if !reg.Reserved(svc.Port()) {
		t.Errorf("port %d not reserved in registry", svc.Port())
	}
	want := fmt.Sprintf("--listen=127.0.0.1:%d", svc.Port())
	if argv := svc.Argv(); len(argv) != 2 || argv[1] != want {
		t.Errorf("Argv() = %v, want [daemon %s]", argv, want)
	}
	if wantAddr := fmt.Sprintf("127.0.0.1:%d", svc.Port()); svc.Addr() != wantAddr {
		t.Errorf("Addr() = %q, want %q", svc.Addr(), wantAddr)
	}
}

func TestServiceWaitReadyBeforeStart(t *testing.T) {
	t.Parallel()

	svc, err := git.NewService("svc", sleeperArgv, git.WithServicePort(1234))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.WaitReady(context.Background()); !errors.Is(err, git.ErrNotStarted) {
		t.Errorf("WaitReady error = %v, want ErrNotStarted", err)
	}
}

func TestServiceBecomesReady(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reg := git.NewPortRegistry()
	svc, err := git.NewService("sleeper", sleeperArgv,
		git.WithReservedPort(reg),
		git.WithReadyInterval(10*time.Millisecond),
		git.WithReadyTimeout(5*time.Second),
		git.WithServiceStopTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	// The probe dials whatever listens on the service's port; stand in for
	// the daemon with a local listener.
	listenOn(t, svc.Port())

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := svc.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}

	port := svc.Port()
	if err := svc.Stop(0); err != nil {
		t.Errorf("Stop: %v", err)
	}
	svc.Close()
	if reg.Reserved(port) {
		t.Errorf("port %d still reserved after Stop", port)
	}

	// Releasing the reservation must not erase the resolved port: callers
	// still read it for reporting after shutdown.
	if svc.Port() != port {
		t.Errorf("Port() = %d after Stop, want %d", svc.Port(), port)
	}
	if wantAddr := fmt.Sprintf("127.0.0.1:%d", port); svc.Addr() != wantAddr {
		t.Errorf("Addr() = %q after Stop, want %q", svc.Addr(), wantAddr)
	}
}

func TestServiceExitBeforeReady(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reg := git.NewPortRegistry()
	exits := func(int) *git.Strvec { return git.NewStrvec("sh", "-c", "exit 1") }
	svc, err := git.NewService("flaky", exits,
		git.WithReservedPort(reg),
		git.WithReadyInterval(10*time.Millisecond),
		git.WithReadyTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Let the process die before polling so the abort path is determinate.
	<-svc.Exited()

	if err := svc.WaitReady(ctx); !errors.Is(err, git.ErrProcessExited) {
		t.Errorf("WaitReady error = %v, want ErrProcessExited", err)
	}
}

func TestServiceLogFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	logDir := t.TempDir()
	svc, err := git.NewService("quiet", sleeperArgv,
		git.WithServicePort(1234),
		git.WithServiceLogDir(logDir),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Close()

	if svc.StdoutLogPath() == "" || svc.StderrLogPath() == "" {
		t.Error("log paths empty for a service with a log directory")
	}
	if err := svc.Stop(5 * time.Second); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
