// Package session keeps one disclosure orchestrator per visitor session and evicts
// orchestrators that have been idle for too long. Persisted identity and numbers live in
// the key/value store and survive eviction.
package session

import (
	"context"
	"sync"
	"time"

	"listing_portal_backend/internal/contact/orchestrator"
	"listing_portal_backend/platform/clock"
	"listing_portal_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// Factory builds the orchestrator of a session.
type Factory func(sessionID string) *orchestrator.Orchestrator

// Registry maps session IDs to orchestrators.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*orchestrator.Orchestrator
	group   singleflight.Group
	build   Factory
	idle    time.Duration
	clock   clock.Clock
	log     *logger.Logger
}

// NewRegistry creates a Registry. A non-positive idle timeout disables eviction.
func NewRegistry(build Factory, idle time.Duration, clk clock.Clock, log *logger.Logger) *Registry {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		entries: make(map[string]*orchestrator.Orchestrator),
		build:   build,
		idle:    idle,
		clock:   clk,
		log:     log,
	}
}

// Get returns the orchestrator of sessionID, building it on first use.
// Concurrent first requests of one session share a single orchestrator.
func (r *Registry) Get(sessionID string) *orchestrator.Orchestrator {
	r.mu.RLock()
	o, ok := r.entries[sessionID]
	if ok {
		// Touched under the lock so a concurrent Sweep cannot evict it before use.
		o.Touch()
	}
	r.mu.RUnlock()
	if ok {
		return o
	}

	v, _, _ := r.group.Do(sessionID, func() (interface{}, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if existing, ok := r.entries[sessionID]; ok {
			return existing, nil
		}
		created := r.build(sessionID)
		r.entries[sessionID] = created
		return created, nil
	})
	return v.(*orchestrator.Orchestrator)
}

// Len returns the number of live orchestrators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep evicts orchestrators idle since before now minus the idle timeout.
// Orchestrators with a submission in flight or an open state subscription are kept.
func (r *Registry) Sweep(now time.Time) int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for sid, o := range r.entries {
		if o.Busy() || o.State().HasSubscribers() || o.LastActivity().After(cutoff) {
			continue
		}
		delete(r.entries, sid)
		evicted++
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.clock.After(interval):
			if n := r.Sweep(r.clock.Now()); n > 0 {
				r.log.Debug("evicted idle contact sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}
