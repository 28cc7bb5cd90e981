package email

import (
	"context"
	"strings"
	"testing"
)

func TestRenderEnquiryReceipt(t *testing.T) {
	subject, content, err := renderEnquiryReceipt(EnquiryReceipt{
		ToEmail:     "ama@example.com",
		VisitorName: "Ama Mensah",
		Subject:     "Oak Villa",
		Message:     "Is it still <available>?",
		Alerts:      true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "Your enquiry about Oak Villa" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{"Hi Ama Mensah", "Oak Villa", "&lt;available&gt;", "similar properties"} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q", want)
		}
	}
}

func TestRenderEnquiryReceiptDefaultsSubject(t *testing.T) {
	subject, content, err := renderEnquiryReceipt(EnquiryReceipt{VisitorName: "Kofi"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "Your enquiry about this property" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if strings.Contains(content, "similar properties") {
		t.Fatalf("alerts paragraph rendered without opt-in")
	}
}

type smtpDisabled struct{}

func (smtpDisabled) GetSMTPHost() string         { return "" }
func (smtpDisabled) GetSMTPPort() int            { return 0 }
func (smtpDisabled) GetSMTPUsername() string     { return "" }
func (smtpDisabled) GetSMTPPassword() string     { return "" }
func (smtpDisabled) GetEmailFromAddress() string { return "" }
func (smtpDisabled) GetEmailFromName() string    { return "" }
func (smtpDisabled) IsSMTPEnabled() bool         { return false }

func TestNewSenderWithoutSMTP(t *testing.T) {
	sender, err := NewSender(smtpDisabled{})
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	if _, ok := sender.(NoopSender); !ok {
		t.Fatalf("expected NoopSender, got %T", sender)
	}
	if err := sender.SendEnquiryReceipt(context.Background(), EnquiryReceipt{}); err != nil {
		t.Fatalf("noop send: %v", err)
	}
}
