// Package state holds the per-context reveal state shared by every contact surface
// of one visitor, with subscription so all surfaces converge on the same numbers.
package state

import (
	"context"
	"sync"

	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/platform/logger"
)

// Snapshot is the reveal state of one context key.
type Snapshot struct {
	PhoneNumber    string `json:"phoneNumber"`
	WhatsAppNumber string `json:"whatsappNumber"`
	ShowNumber     bool   `json:"showNumber"`
}

// Seeder supplies previously revealed numbers. *store.NumberCache implements it.
type Seeder interface {
	Get(ctx context.Context, contextKey string) (*domain.RevealedNumbers, error)
}

type entry struct {
	snapshot Snapshot
	seeded   bool
	subs     map[uint64]chan Snapshot
}

// Store is the ContactStateStore: one entry per context key, seeded lazily from the
// number cache. Keys never observe each other's updates.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	nextSub uint64
	seeder  Seeder
	log     *logger.Logger
}

// New creates a Store. seeder may be nil.
func New(seeder Seeder, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		entries: make(map[string]*entry),
		seeder:  seeder,
		log:     log,
	}
}

// Get returns the snapshot for key, seeding it from the cache on first access.
func (s *Store) Get(ctx context.Context, key string) Snapshot {
	s.seed(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryLocked(key).snapshot
}

// SetPhoneNumbers records revealed numbers for key, flips ShowNumber and notifies subscribers.
func (s *Store) SetPhoneNumbers(key, display, whatsapp string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(key)
	e.seeded = true
	e.snapshot = Snapshot{PhoneNumber: display, WhatsAppNumber: whatsapp, ShowNumber: true}
	s.notifyLocked(e)
}

// Subscribe returns a channel that receives the current snapshot of key followed by
// every change. Slow readers only see the latest value. The channel is closed by the
// returned cancel func or when ctx is done.
func (s *Store) Subscribe(ctx context.Context, key string) (<-chan Snapshot, func()) {
	s.seed(ctx, key)

	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	e := s.entryLocked(key)
	s.nextSub++
	id := s.nextSub
	e.subs[id] = ch
	ch <- e.snapshot
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if e, ok := s.entries[key]; ok {
				delete(e.subs, id)
			}
			close(ch)
		})
	}
	stop := context.AfterFunc(ctx, cancel)

	return ch, func() {
		stop()
		cancel()
	}
}

// Subscribers returns the number of open subscriptions for key.
func (s *Store) Subscribers(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		return len(e.subs)
	}
	return 0
}

// HasSubscribers reports whether any key has an open subscription.
func (s *Store) HasSubscribers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if len(e.subs) > 0 {
			return true
		}
	}
	return false
}

func (s *Store) seed(ctx context.Context, key string) {
	s.mu.Lock()
	e := s.entryLocked(key)
	if e.seeded || s.seeder == nil {
		e.seeded = true
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	numbers, err := s.seeder.Get(ctx, key)
	if err != nil {
		s.log.WithContext(ctx).Warn("failed to seed contact state", "contextKey", key, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e.seeded {
		// A reveal or another seed won the race.
		return
	}
	if err != nil {
		// Leave unseeded so the next access retries the cache.
		return
	}
	e.seeded = true
	if numbers != nil {
		e.snapshot = Snapshot{PhoneNumber: numbers.DisplayNumber, WhatsAppNumber: numbers.WhatsAppNumber, ShowNumber: true}
		s.notifyLocked(e)
	}
}

func (s *Store) entryLocked(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{subs: make(map[uint64]chan Snapshot)}
		s.entries[key] = e
	}
	return e
}

func (s *Store) notifyLocked(e *entry) {
	for _, ch := range e.subs {
		select {
		case ch <- e.snapshot:
		default:
			// Drop the stale value so the reader sees the latest one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- e.snapshot:
			default:
			}
		}
	}
}
