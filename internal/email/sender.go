// Package email renders and delivers the transactional emails sent to visitors.
package email

import (
	"context"

	"listing_portal_backend/platform/config"
)

// EnquiryReceipt is the confirmation a visitor receives after an enquiry was delivered.
type EnquiryReceipt struct {
	ToEmail     string
	VisitorName string
	Subject     string
	Message     string
	Alerts      bool
}

type Sender interface {
	SendEnquiryReceipt(ctx context.Context, receipt EnquiryReceipt) error
}

// NoopSender is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendEnquiryReceipt(ctx context.Context, receipt EnquiryReceipt) error {
	return nil
}

// NewSender returns an SMTP sender, or a NoopSender when SMTP is not configured.
func NewSender(cfg config.SMTPConfig) (Sender, error) {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
