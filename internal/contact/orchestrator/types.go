package orchestrator

import (
	"context"
	"time"

	"listing_portal_backend/internal/contact/client"
	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/internal/contact/state"
	"listing_portal_backend/internal/contact/validation"
)

// Banner messages shown to the visitor.
const (
	MsgRateLimited    = "Please wait a moment before trying again."
	MsgNetworkError   = "Network error. Please check your connection and try again."
	MsgNumberFailed   = "Failed to get phone number. Please try again."
	MsgEnquiryFailed  = "Failed to send message. Please try again."
	MsgInvalidForm    = "Please correct the highlighted fields."
	MsgNothingToRetry = "There is no failed request to retry."
)

// Upstream is the listings API. *client.Client implements it.
type Upstream interface {
	ResolveContactNumber(ctx context.Context, req client.ResolveRequest) (domain.RevealedNumbers, error)
	SendEnquiry(ctx context.Context, enquiry client.EnquiryForm) (string, error)
}

// IdentityStore persists the visitor's identity. *store.IdentityStore implements it.
type IdentityStore interface {
	Load(ctx context.Context) (*domain.UserIdentity, error)
	Save(ctx context.Context, identity domain.UserIdentity) error
	Clear(ctx context.Context) error
}

// NumberCache persists revealed numbers. *store.NumberCache implements it.
type NumberCache interface {
	Get(ctx context.Context, contextKey string) (*domain.RevealedNumbers, error)
	Set(ctx context.Context, contextKey string, numbers domain.RevealedNumbers) error
}

// Config holds the timing rules of one orchestrator.
type Config struct {
	SessionID   string
	RateWindow  time.Duration
	RetryDelay  time.Duration
	MaxAttempts int
}

// DefaultConfig returns the production timing rules.
func DefaultConfig(sessionID string) Config {
	return Config{
		SessionID:   sessionID,
		RateWindow:  2 * time.Second,
		RetryDelay:  2 * time.Second,
		MaxAttempts: 3,
	}
}

// Outcome describes the result of one orchestrator operation for a (context, channel) pair.
type Outcome struct {
	ContextKey    string                  `json:"contextKey"`
	Channel       domain.Channel          `json:"channel"`
	State         domain.State            `json:"state"`
	Numbers       *domain.RevealedNumbers `json:"numbers,omitempty"`
	DeepLink      string                  `json:"deepLink,omitempty"`
	Draft         *domain.FormDraft       `json:"draft,omitempty"`
	Error         string                  `json:"error,omitempty"`
	Ticket        uint64                  `json:"ticket,omitempty"`
	Attempts      int                     `json:"attempts,omitempty"`
	AutoSubmitted bool                    `json:"autoSubmitted,omitempty"`
	FromCache     bool                    `json:"fromCache,omitempty"`
	// Superseded is set when a newer submission for the same pair replaced this one.
	// Nothing was committed.
	Superseded bool `json:"superseded,omitempty"`
}

// ChannelView is the current state of one channel of a context.
type ChannelView struct {
	State       domain.State           `json:"state"`
	Error       string                 `json:"error,omitempty"`
	FieldErrors validation.FieldErrors `json:"fieldErrors,omitempty"`
}

// View is everything a contact surface needs to render one context.
type View struct {
	ContextKey    string                         `json:"contextKey"`
	Channels      map[domain.Channel]ChannelView `json:"channels"`
	Numbers       state.Snapshot                 `json:"numbers"`
	IdentitySaved bool                           `json:"identitySaved"`
	Draft         domain.FormDraft               `json:"draft"`
}
