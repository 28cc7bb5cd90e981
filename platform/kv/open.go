package kv

import (
	"context"
	"fmt"
	"time"

	"listing_portal_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is an opened Store together with its health check and close function.
type Backend struct {
	Store Store
	Ping  func(ctx context.Context) error
	Close func() error
}

// Open builds the Store selected by cfg. The postgres driver requires pool.
// Redis keys expire after ttl when it is positive.
func Open(ctx context.Context, cfg config.StorageConfig, pool *pgxpool.Pool, ttl time.Duration) (Backend, error) {
	noop := func() error { return nil }

	switch driver := NormalizeDriver(cfg.GetStorageDriver()); driver {
	case DriverMemory:
		return Backend{
			Store: NewMemory(),
			Ping:  func(context.Context) error { return nil },
			Close: noop,
		}, nil
	case DriverRedis:
		r, err := DialRedis(ctx, cfg.GetRedisURL(), cfg.GetRedisTLSInsecure(), ttl)
		if err != nil {
			return Backend{}, err
		}
		return Backend{Store: r, Ping: r.Ping, Close: r.Close}, nil
	case DriverPostgres:
		if pool == nil {
			return Backend{}, fmt.Errorf("postgres storage requires a database pool")
		}
		return Backend{Store: NewPostgres(pool), Ping: pool.Ping, Close: noop}, nil
	default:
		return Backend{}, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
