package spawn

import (
	"time"
)

// Stoppable represents a process that can be stopped and have its resources
// closed.
type Stoppable interface {
	Stop(timeout time.Duration) error
	Close()
}

// StopCloseAndNil stops, closes, and nils a Stoppable pointer in a single
// cleanup step. It is safe to call with a nil p or when *p is nil; in both
// cases it returns nil immediately.
//
// The two type parameters enforce a pointer-type constraint at compile time:
//
//   - P is constrained to both *E and Stoppable, so only pointer types that
//     implement Stoppable can be passed, and *E compares directly to nil
//     without reflection.
//   - E is the element type, inferred by the compiler; callers never spell
//     it out.
//
// Close and the nil-out always run even when Stop fails. A failed Stop
// leaves the process in an unknown state, so file handles still need
// closing and the pointer still needs clearing; the Stop error is returned
// to the caller regardless.
//
// Usage:
//
//	var svc *someService // implements Stoppable via pointer receiver
//	// ... start svc ...
//	err := spawn.StopCloseAndNil(&svc, 10*time.Second)
//
// After the call, svc is nil whether or not Stop succeeded.
func StopCloseAndNil[P interface {
	*E
	Stoppable
}, E any](p *P, timeout time.Duration) error {
	if p == nil || *p == nil {
		return nil
	}
	defer func() {
		(*p).Close()
		*p = nil
	}()
	return (*p).Stop(timeout)
}
