// Package transport defines the request and response bodies of the contact API.
package transport

import (
	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/internal/contact/orchestrator"
)

// PathParams are the route parameters shared by every contact endpoint.
type PathParams struct {
	Kind     string `uri:"kind" json:"kind" validate:"required,oneof=listing project"`
	EntityID string `uri:"id" json:"id" validate:"required,max=64"`
}

// ChannelParams add the channel segment.
type ChannelParams struct {
	PathParams
	Channel string `uri:"channel" json:"channel" validate:"required,oneof=call whatsapp email"`
}

// IdentityQuery selects the context whose channels reset when the identity is cleared.
type IdentityQuery struct {
	Kind     string `form:"kind" json:"kind" validate:"required,oneof=listing project"`
	EntityID string `form:"id" json:"id" validate:"required,max=64"`
}

// OpenRequest is sent when a contact button is clicked. Subject is the display name of
// the listing or project and ends up in the WhatsApp greeting.
type OpenRequest struct {
	Subject string `json:"subject" validate:"max=200,safetext"`
}

// SubmitRequest is a contact form submission. Content rules are applied by the
// orchestrator so that field messages match the site; only sizes are checked here.
type SubmitRequest struct {
	Name       string `json:"name" validate:"max=100"`
	Phone      string `json:"phone" validate:"max=32"`
	CountryISO string `json:"countryIso" validate:"omitempty,len=2,alpha"`
	Email      string `json:"email" validate:"max=254"`
	Message    string `json:"message" validate:"max=2000"`
	Subject    string `json:"subject" validate:"max=200,safetext"`
	Alerts     bool   `json:"alerts"`
}

// Draft converts the request into a form draft.
func (r SubmitRequest) Draft() domain.FormDraft {
	return domain.FormDraft{
		Name:       r.Name,
		Phone:      r.Phone,
		CountryISO: r.CountryISO,
		Email:      r.Email,
		Message:    r.Message,
		Subject:    r.Subject,
		Alerts:     r.Alerts,
	}
}

// OutcomeResponse is returned by open, submit, retry and identity reset.
type OutcomeResponse = orchestrator.Outcome

// ErrorResponse is returned when an operation failed. Outcome carries the resulting
// channel state; Details maps form fields to messages on validation failures.
type ErrorResponse struct {
	Error   string                `json:"error"`
	Details interface{}           `json:"details,omitempty"`
	Outcome *orchestrator.Outcome `json:"outcome,omitempty"`
}

// ViewResponse is the current state of a context.
type ViewResponse = orchestrator.View

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
