// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"listing_portal_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewBaseEventAt = events.NewBaseEventAt
)

// Event names, shared by publishers and subscribers.
const (
	NameNumbersRevealed  = "contact.numbers.revealed"
	NameEnquirySent      = "contact.enquiry.sent"
	NameIdentityCleared  = "contact.identity.cleared"
	NameDisclosureFailed = "contact.disclosure.failed"
)

// =============================================================================
// Contact Disclosure Events
// =============================================================================

// NumbersRevealed is published when a visitor's submission resolved the agent numbers
// for a listing or project.
type NumbersRevealed struct {
	BaseEvent
	SessionID      string `json:"sessionId"`
	ContextKey     string `json:"contextKey"`
	Channel        string `json:"channel"`
	VisitorName    string `json:"visitorName"`
	VisitorPhone   string `json:"visitorPhone"`
	DisplayNumber  string `json:"displayNumber"`
	WhatsAppNumber string `json:"whatsappNumber"`
	AutoSubmitted  bool   `json:"autoSubmitted"`
	Attempts       int    `json:"attempts"`
}

func (e NumbersRevealed) EventName() string { return NameNumbersRevealed }

// EnquirySent is published when the messaging service accepted an email enquiry.
type EnquirySent struct {
	BaseEvent
	SessionID    string `json:"sessionId"`
	ContextKey   string `json:"contextKey"`
	Subject      string `json:"subject"`
	VisitorName  string `json:"visitorName"`
	VisitorEmail string `json:"visitorEmail"`
	VisitorPhone string `json:"visitorPhone"`
	Message      string `json:"message"`
	Alerts       bool   `json:"alerts"`
	Attempts     int    `json:"attempts"`
}

func (e EnquirySent) EventName() string { return NameEnquirySent }

// IdentityCleared is published when a visitor chose to enter different contact details.
type IdentityCleared struct {
	BaseEvent
	SessionID  string `json:"sessionId"`
	ContextKey string `json:"contextKey"`
}

func (e IdentityCleared) EventName() string { return NameIdentityCleared }

// DisclosureFailed is published when a submission ended in the Failed state.
type DisclosureFailed struct {
	BaseEvent
	SessionID  string `json:"sessionId"`
	ContextKey string `json:"contextKey"`
	Channel    string `json:"channel"`
	Reason     string `json:"reason"`
	Attempts   int    `json:"attempts"`
}

func (e DisclosureFailed) EventName() string { return NameDisclosureFailed }
