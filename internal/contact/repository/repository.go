// Package repository records contact disclosures and enquiries in the Postgres lead ledger.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ledger outcomes.
const (
	OutcomeRevealed = "revealed"
	OutcomeSent     = "sent"
	OutcomeFailed   = "failed"
)

// Execer is the subset of pgxpool.Pool used by the ledger.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Entry is one ledger row. VisitorPhone is stored masked.
type Entry struct {
	ID            uuid.UUID
	SessionID     string
	ContextKey    string
	EntityKind    string
	EntityID      string
	Channel       string
	Outcome       string
	VisitorName   string
	VisitorPhone  string
	VisitorEmail  string
	Alerts        bool
	AutoSubmitted bool
	Attempts      int
	Reason        string
	OccurredAt    time.Time
}

type Repository struct {
	db Execer
}

func New(db Execer) *Repository {
	return &Repository{db: db}
}

// Record inserts entry. A zero ID or timestamp is filled in.
func (r *Repository) Record(ctx context.Context, entry Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}
	if entry.Attempts < 1 {
		entry.Attempts = 1
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO contact_ledger (
			id, session_id, context_key, entity_kind, entity_id, channel, outcome,
			visitor_name, visitor_phone, visitor_email, alerts, auto_submitted,
			attempts, reason, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		entry.ID, entry.SessionID, entry.ContextKey, entry.EntityKind, entry.EntityID,
		entry.Channel, entry.Outcome, entry.VisitorName, entry.VisitorPhone, entry.VisitorEmail,
		entry.Alerts, entry.AutoSubmitted, entry.Attempts, entry.Reason, entry.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact ledger entry: %w", err)
	}
	return nil
}

// DeleteBefore removes entries that occurred before the cutoff.
func (r *Repository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_ledger WHERE occurred_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("prune contact ledger: %w", err)
	}
	return tag.RowsAffected(), nil
}
