package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KeenNjupt/git/internal/spawn"
	"github.com/KeenNjupt/git/internal/trace"
)

// Group starts a set of services together and stops them in reverse order.
// Services are started concurrently, and a readiness failure in any of them
// cancels the readiness polls of its siblings so the group fails fast
// instead of burning every timeout in sequence.
//
// A Group is not safe for concurrent use. Start and Stop must be serialized
// by the owner; each Service is owned by exactly one Group.
type Group struct {
	services []*Service
	log      *slog.Logger
	started  bool
}

// NewGroup creates a Group over the given services, in start order.
// Panics if any service is nil, since a nil entry could otherwise surface
// only at Start time as a confusing crash.
func NewGroup(services ...*Service) *Group {
	for i, svc := range services {
		if svc == nil {
			panic(fmt.Sprintf("git: group service %d must not be nil", i))
		}
	}
	return &Group{
		services: services,
		log:      trace.Logger().With("component", "group"),
	}
}

// Services returns the group's services in start order. The slice is a
// copy; entries stopped via Stop appear as nil.
func (g *Group) Services() []*Service {
	out := make([]*Service, len(g.services))
	copy(out, g.services)
	return out
}

// Start launches every service concurrently and waits for all of them to
// become ready. If any service fails to start or come ready, the remaining
// readiness polls are canceled and every already-started service is stopped
// in reverse order before Start returns the failure.
//
// Returns ErrAlreadyStarted when the group is already running.
func (g *Group) Start(ctx context.Context) (retErr error) {
	if g.started {
		return ErrAlreadyStarted
	}
	startTime := time.Now()

	defer func() {
		if retErr != nil {
			if err := g.Stop(0); err != nil {
				g.log.Warn("cleanup after group start failure", "error", err)
			}
		}
	}()

	// errgroup.WithContext derives a child context that is canceled when
	// any goroutine returns an error. Using gCtx for readiness checks
	// ensures that if one service fails, the others' readiness polls are
	// canceled immediately rather than waiting for their full timeouts.
	eg, gCtx := errgroup.WithContext(ctx)
	for _, svc := range g.services {
		svc := svc
		eg.Go(func() error {
			g.log.Debug("starting service", "service", svc.Name())
			if err := svc.Start(ctx); err != nil {
				return fmt.Errorf("start %s: %w", svc.Name(), err)
			}
			if err := svc.WaitReady(gCtx); err != nil {
				return fmt.Errorf("readiness of %s: %w", svc.Name(), err)
			}
			g.log.Debug("service ready", "service", svc.Name(), "port", svc.Port())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("start group: %w", err)
	}

	g.started = true
	g.log.Debug("group started", "services", len(g.services), "elapsed", time.Since(startTime))
	return nil
}

// Stop stops every service in reverse start order, so dependents go down
// before their dependencies. The timeout applies per service, not as a
// total budget: with N services the worst-case stop duration is N*timeout.
// A non-positive timeout lets each service fall back to its own configured
// stop timeout.
//
// All services are attempted even when some fail; the combined error is
// returned. Stopped entries are nilled out, so Stop after Stop is a no-op.
func (g *Group) Stop(timeout time.Duration) error {
	g.started = false

	var errs []error
	for i := len(g.services) - 1; i >= 0; i-- {
		if g.services[i] == nil {
			continue
		}
		name := g.services[i].Name()
		if err := spawn.StopCloseAndNil(&g.services[i], timeout); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
