package scheduler

import (
	"context"
	"time"

	"listing_portal_backend/platform/logger"
)

const (
	defaultLedgerCleanupInterval = time.Hour
	defaultLedgerRetention       = 180 * 24 * time.Hour
)

// LedgerPruner deletes ledger rows older than a cutoff.
type LedgerPruner interface {
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// LedgerCleanup periodically removes contact ledger entries past their retention.
type LedgerCleanup struct {
	repo      LedgerPruner
	log       *logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewLedgerCleanup(repo LedgerPruner, log *logger.Logger, interval, retention time.Duration) *LedgerCleanup {
	if interval <= 0 {
		interval = defaultLedgerCleanupInterval
	}
	if retention <= 0 {
		retention = defaultLedgerRetention
	}

	return &LedgerCleanup{
		repo:      repo,
		log:       log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

func (c *LedgerCleanup) Run(ctx context.Context) {
	if c == nil || c.repo == nil {
		return
	}

	c.cleanup(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *LedgerCleanup) cleanup(ctx context.Context) {
	deleted, err := c.repo.DeleteBefore(ctx, c.now().Add(-c.retention))
	if err != nil {
		c.log.Warn("contact ledger cleanup failed", "error", err)
		return
	}

	if deleted > 0 {
		c.log.Info("contact ledger cleanup deleted entries", "deleted", deleted)
	}
}
