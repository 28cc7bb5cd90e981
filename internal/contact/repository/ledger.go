package repository

import (
	"context"

	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/internal/events"
	"listing_portal_backend/platform/logger"
	"listing_portal_backend/platform/phone"
)

// Recorder is implemented by Repository.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// SubscribeLedger records every disclosure outcome published on bus.
func SubscribeLedger(bus events.Bus, rec Recorder, log *logger.Logger) {
	handler := events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		entry, ok := EntryFromEvent(event)
		if !ok {
			return nil
		}
		if err := rec.Record(ctx, entry); err != nil {
			log.DatabaseError("contact_ledger.record", err)
			return err
		}
		return nil
	})

	bus.Subscribe(events.NameNumbersRevealed, handler)
	bus.Subscribe(events.NameEnquirySent, handler)
	bus.Subscribe(events.NameDisclosureFailed, handler)
}

// EntryFromEvent converts a disclosure event into a ledger entry.
func EntryFromEvent(event events.Event) (Entry, bool) {
	var entry Entry
	switch e := event.(type) {
	case events.NumbersRevealed:
		entry = Entry{
			SessionID:     e.SessionID,
			ContextKey:    e.ContextKey,
			Channel:       e.Channel,
			Outcome:       OutcomeRevealed,
			VisitorName:   e.VisitorName,
			VisitorPhone:  phone.Mask(e.VisitorPhone),
			AutoSubmitted: e.AutoSubmitted,
			Attempts:      e.Attempts,
		}
	case events.EnquirySent:
		entry = Entry{
			SessionID:    e.SessionID,
			ContextKey:   e.ContextKey,
			Channel:      string(domain.ChannelEmail),
			Outcome:      OutcomeSent,
			VisitorName:  e.VisitorName,
			VisitorPhone: phone.Mask(e.VisitorPhone),
			VisitorEmail: e.VisitorEmail,
			Alerts:       e.Alerts,
			Attempts:     e.Attempts,
		}
	case events.DisclosureFailed:
		entry = Entry{
			SessionID:  e.SessionID,
			ContextKey: e.ContextKey,
			Channel:    e.Channel,
			Outcome:    OutcomeFailed,
			Reason:     e.Reason,
			Attempts:   e.Attempts,
		}
	default:
		return Entry{}, false
	}

	entry.OccurredAt = event.OccurredAt()
	if cc, err := domain.ParseContextKey(entry.ContextKey); err == nil {
		entry.EntityKind = string(cc.Kind)
		entry.EntityID = cc.EntityID
	}
	return entry, true
}
