// Package kv provides an injectable key/value store with memory, Redis and Postgres backends.
// This is part of the platform layer and contains no business logic.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDriver is returned by Open for unsupported driver names.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Store is a byte-oriented key/value store. Get reports ok=false for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Prefixed returns a Store that transparently namespaces every key with prefix.
// A nil inner store stays nil so callers can keep treating "no storage" as a no-op.
func Prefixed(inner Store, prefix string) Store {
	if inner == nil {
		return nil
	}
	return &prefixed{inner: inner, prefix: prefix}
}

type prefixed struct {
	inner  Store
	prefix string
}

func (p *prefixed) key(k string) string { return p.prefix + k }

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, p.key(key))
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.key(key), value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.key(key))
}

// SessionPrefix returns the namespace used for one visitor session.
func SessionPrefix(sessionID string) string {
	return fmt.Sprintf("session:%s:", sessionID)
}

// Driver names accepted by configuration.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// NormalizeDriver lower-cases and defaults the driver name.
func NormalizeDriver(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DriverMemory
	}
	return name
}
