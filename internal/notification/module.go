// Package notification provides event handlers for sending notifications
// in response to domain events.
// This module subscribes to events and inverts the dependency: the contact module
// does not need to know about email providers, templates or the task queue.
package notification

import (
	"context"

	"listing_portal_backend/internal/email"
	"listing_portal_backend/internal/events"
	"listing_portal_backend/internal/scheduler"
	"listing_portal_backend/platform/logger"
)

// Module handles notification side effects of contact events.
type Module struct {
	sender    email.Sender
	scheduler scheduler.ReceiptScheduler
	log       *logger.Logger
}

// New creates the notification module. Receipts are sent inline until a scheduler is set.
func New(sender email.Sender, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Module{sender: sender, log: log}
}

// SetReceiptScheduler hands enquiry receipts to the task queue.
func (m *Module) SetReceiptScheduler(s scheduler.ReceiptScheduler) {
	m.scheduler = s
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.EnquirySent{}.EventName(), m)
	bus.Subscribe(events.DisclosureFailed{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.EnquirySent:
		return m.handleEnquirySent(ctx, e)
	case events.DisclosureFailed:
		m.handleDisclosureFailed(ctx, e)
		return nil
	default:
		m.log.Debug("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleEnquirySent(ctx context.Context, e events.EnquirySent) error {
	if e.VisitorEmail == "" {
		return nil
	}

	if m.scheduler != nil {
		err := m.scheduler.EnqueueEnquiryReceipt(ctx, scheduler.EnquiryReceiptPayload{
			ContextKey:  e.ContextKey,
			ToEmail:     e.VisitorEmail,
			VisitorName: e.VisitorName,
			Subject:     e.Subject,
			Message:     e.Message,
			Alerts:      e.Alerts,
		})
		if err != nil {
			m.log.Error("failed to enqueue enquiry receipt", "contextKey", e.ContextKey, "error", err)
			return err
		}
		m.log.Info("enquiry receipt queued", "contextKey", e.ContextKey)
		return nil
	}

	if err := m.sender.SendEnquiryReceipt(ctx, email.EnquiryReceipt{
		ToEmail:     e.VisitorEmail,
		VisitorName: e.VisitorName,
		Subject:     e.Subject,
		Message:     e.Message,
		Alerts:      e.Alerts,
	}); err != nil {
		m.log.Error("failed to send enquiry receipt", "contextKey", e.ContextKey, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleDisclosureFailed(ctx context.Context, e events.DisclosureFailed) {
	m.log.WithContext(ctx).Warn("contact disclosure failed",
		"contextKey", e.ContextKey,
		"channel", e.Channel,
		"attempts", e.Attempts,
		"reason", e.Reason,
	)
}
