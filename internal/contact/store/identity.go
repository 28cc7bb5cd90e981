// Package store persists the visitor identity and the revealed numbers on top of platform/kv.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/platform/kv"
	"listing_portal_backend/platform/logger"
)

const identityKey = "contact_info"

// IdentityStore persists the visitor's identity. A store without a backing KV is a no-op
// whose Load always reports no identity.
type IdentityStore struct {
	kv  kv.Store
	log *logger.Logger
}

// NewIdentityStore creates an IdentityStore. kv may be nil.
func NewIdentityStore(store kv.Store, log *logger.Logger) *IdentityStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &IdentityStore{kv: store, log: log}
}

// Load returns the saved identity, or nil when none is saved. Corrupt payloads and
// payloads without name or phone count as absent.
func (s *IdentityStore) Load(ctx context.Context) (*domain.UserIdentity, error) {
	if s.kv == nil {
		return nil, nil
	}

	raw, ok, err := s.kv.Get(ctx, identityKey)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var identity domain.UserIdentity
	if err := json.Unmarshal(raw, &identity); err != nil {
		s.log.WithContext(ctx).Warn("discarding corrupt identity", "error", err)
		return nil, nil
	}
	if !identity.Complete() {
		s.log.WithContext(ctx).Warn("discarding incomplete identity")
		return nil, nil
	}
	identity.CountryISO = strings.ToUpper(identity.CountryISO)
	return &identity, nil
}

// Save overwrites the saved identity.
func (s *IdentityStore) Save(ctx context.Context, identity domain.UserIdentity) error {
	if s.kv == nil {
		return nil
	}
	identity.CountryISO = strings.ToUpper(identity.CountryISO)
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.kv.Set(ctx, identityKey, payload); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

// Clear removes the saved identity.
func (s *IdentityStore) Clear(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	if err := s.kv.Delete(ctx, identityKey); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
