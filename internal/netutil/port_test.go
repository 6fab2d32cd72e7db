package netutil

import (
	"net"
	"strconv"
	"sync"
	"testing"
)

func TestNewPortRegistry(t *testing.T) {
	t.Parallel()

	t.Run("nil logger uses default", func(t *testing.T) {
		t.Parallel()

		r := NewPortRegistry(nil)
		if r == nil {
			t.Fatal("expected non-nil registry")
		}
		if !r.reserve(8080) {
			t.Fatal("expected reserve to succeed on new registry")
		}
		r.Release(8080)
	})
}

func TestPortRegistryReserve(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setup  func(r *PortRegistry)
		port   int
		wantOK bool
	}{
		"new port": {
			setup:  func(_ *PortRegistry) {},
			port:   8080,
			wantOK: true,
		},
		"duplicate port": {
			setup:  func(r *PortRegistry) { r.reserve(9090) },
			port:   9090,
			wantOK: false,
		},
		"distinct ports": {
			setup:  func(r *PortRegistry) { r.reserve(8080) },
			port:   8081,
			wantOK: true,
		},
		"released port is reusable": {
			setup: func(r *PortRegistry) {
				r.reserve(7070)
				r.Release(7070)
			},
			port:   7070,
			wantOK: true,
		},
	}

	for name, tc := range tests {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := NewPortRegistry(nil)
			tc.setup(r)

			if got := r.reserve(tc.port); got != tc.wantOK {
				t.Errorf("reserve(%d) = %v, want %v", tc.port, got, tc.wantOK)
			}
			if !r.Reserved(tc.port) {
				t.Errorf("Reserved(%d) = false after reserve attempt, want true", tc.port)
			}
		})
	}
}

func TestPortRegistryAllocate(t *testing.T) {
	t.Parallel()

	t.Run("returns bindable port", func(t *testing.T) {
		t.Parallel()

		r := NewPortRegistry(nil)
		port, err := r.Allocate()
		if err != nil {
			t.Fatalf("Allocate() error: %v", err)
		}
		defer r.Release(port)

		if port <= 0 || port > 65535 {
			t.Fatalf("Allocate() = %d, want a valid port", port)
		}
		if !r.Reserved(port) {
			t.Error("allocated port is not registered")
		}

		// The probe listener must be closed, so the port is bindable.
		l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			t.Fatalf("bind allocated port %d: %v", port, err)
		}
		_ = l.Close()
	})

	t.Run("concurrent allocations are distinct", func(t *testing.T) {
		t.Parallel()

		const n = 16

		r := NewPortRegistry(nil)
		var (
			mu    sync.Mutex
			ports = make(map[int]int)
			wg    sync.WaitGroup
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				port, err := r.Allocate()
				if err != nil {
					t.Errorf("Allocate() error: %v", err)
					return
				}
				mu.Lock()
				ports[port]++
				mu.Unlock()
			}()
		}
		wg.Wait()

		for port, count := range ports {
			if count > 1 {
				t.Errorf("port %d allocated %d times", port, count)
			}
			r.Release(port)
		}
	})

	t.Run("release makes port available again", func(t *testing.T) {
		t.Parallel()

		r := NewPortRegistry(nil)
		port, err := r.Allocate()
		if err != nil {
			t.Fatalf("Allocate() error: %v", err)
		}

		r.Release(port)
		if r.Reserved(port) {
			t.Errorf("Reserved(%d) = true after Release, want false", port)
		}
	})
}
