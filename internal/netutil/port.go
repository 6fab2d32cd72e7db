package netutil

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// maxPortRetries bounds the attempts to find a port not already in the
// registry. This guards against pathological cases.
const maxPortRetries = 20

// PortRegistry tracks ports currently reserved by this process. The kernel
// can legally hand the same ephemeral port to two callers in sequence once
// the first probe listener closes; the registry closes that race for callers
// inside one process by remembering every port still considered in use.
//
// One registry is shared across all services; Allocate and Release are safe
// for concurrent use.
type PortRegistry struct {
	mu    sync.Mutex
	ports map[int]struct{}
	log   *slog.Logger
}

// NewPortRegistry creates an empty PortRegistry ready for use.
// If logger is nil, slog.Default() is used as a fallback.
func NewPortRegistry(logger *slog.Logger) *PortRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortRegistry{
		ports: make(map[int]struct{}),
		log:   logger,
	}
}

// reserve registers a port in the registry. It reports false when the port
// is already taken.
func (r *PortRegistry) reserve(port int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ports[port]; ok {
		return false
	}
	r.ports[port] = struct{}{}
	return true
}

// Release removes a port from the registry, allowing later Allocate calls to
// hand it out again.
func (r *PortRegistry) Release(port int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ports, port)
}

// Reserved reports whether port is currently registered.
func (r *PortRegistry) Reserved(port int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ports[port]
	return ok
}

// Allocate obtains a free loopback TCP port from the kernel, registers it,
// and returns it. The probe listener is closed before returning, so the
// caller's service can bind the port; the registration stays until the
// caller invokes Release.
func (r *PortRegistry) Allocate() (int, error) {
	l, port, err := r.listenFree()
	if err != nil {
		return 0, err
	}
	// Close after registration so no concurrent Allocate can bind the same
	// port while we still hold it.
	if closeErr := l.Close(); closeErr != nil {
		r.log.Warn("close listener after port allocation", "port", port, "error", closeErr)
	}
	return port, nil
}

// listenFree asks the kernel for a free port, skipping ports already in the
// registry. On success the returned listener is still open and the port is
// registered; the caller closes the listener and later calls Release.
func (r *PortRegistry) listenFree() (*net.TCPListener, int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, 0, fmt.Errorf("resolve tcp address: %w", err)
	}

	for i := 0; i < maxPortRetries; i++ {
		l, err := net.ListenTCP("tcp", addr)
		if err != nil {
			return nil, 0, fmt.Errorf("listen on tcp address: %w", err)
		}
		tcpAddr, ok := l.Addr().(*net.TCPAddr)
		if !ok {
			_ = l.Close()
			return nil, 0, fmt.Errorf("unexpected address type: %T", l.Addr())
		}
		if r.reserve(tcpAddr.Port) {
			return l, tcpAddr.Port, nil
		}
		// Port already handed out, close and retry for a different one.
		r.log.Debug("port already in registry, retrying", "port", tcpAddr.Port)
		_ = l.Close()
	}
	return nil, 0, fmt.Errorf("allocate unique port: exhausted %d attempts", maxPortRetries)
}
