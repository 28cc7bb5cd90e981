package store

import (
	"context"
	"encoding/json"
	"fmt"

	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/platform/kv"
	"listing_portal_backend/platform/logger"
)

const numbersKeyPrefix = "contact_numbers:"

// NumberCache persists revealed numbers per context key. Entries never expire;
// they are only replaced by a later successful disclosure for the same key.
type NumberCache struct {
	kv  kv.Store
	log *logger.Logger
}

// NewNumberCache creates a NumberCache. kv may be nil.
func NewNumberCache(store kv.Store, log *logger.Logger) *NumberCache {
	if log == nil {
		log = logger.NewNop()
	}
	return &NumberCache{kv: store, log: log}
}

// Get returns the cached numbers for contextKey, or nil on a miss.
// Corrupt or partial entries are misses.
func (c *NumberCache) Get(ctx context.Context, contextKey string) (*domain.RevealedNumbers, error) {
	if c.kv == nil {
		return nil, nil
	}

	raw, ok, err := c.kv.Get(ctx, numbersKeyPrefix+contextKey)
	if err != nil {
		return nil, fmt.Errorf("load numbers for %s: %w", contextKey, err)
	}
	if !ok {
		return nil, nil
	}

	var numbers domain.RevealedNumbers
	if err := json.Unmarshal(raw, &numbers); err != nil {
		c.log.WithContext(ctx).Warn("discarding corrupt number cache entry", "contextKey", contextKey, "error", err)
		return nil, nil
	}
	if !numbers.Complete() {
		return nil, nil
	}
	return &numbers, nil
}

// Set stores numbers for contextKey.
func (c *NumberCache) Set(ctx context.Context, contextKey string, numbers domain.RevealedNumbers) error {
	if c.kv == nil {
		return nil
	}
	payload, err := json.Marshal(numbers)
	if err != nil {
		return fmt.Errorf("encode numbers: %w", err)
	}
	if err := c.kv.Set(ctx, numbersKeyPrefix+contextKey, payload); err != nil {
		return fmt.Errorf("save numbers for %s: %w", contextKey, err)
	}
	return nil
}
