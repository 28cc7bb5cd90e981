package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Channel is one of the contact paths offered on a listing or project.
type Channel string

const (
	ChannelCall     Channel = "call"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

// ErrInvalidChannel is returned for unknown channels.
var ErrInvalidChannel = errors.New("invalid channel")

// Channels lists every channel in display order.
func Channels() []Channel {
	return []Channel{ChannelCall, ChannelWhatsApp, ChannelEmail}
}

// ParseChannel validates a channel name.
func ParseChannel(value string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(value))) {
	case ChannelCall:
		return ChannelCall, nil
	case ChannelWhatsApp:
		return ChannelWhatsApp, nil
	case ChannelEmail:
		return ChannelEmail, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidChannel, value)
	}
}

// RevealsNumber reports whether a successful submission on this channel discloses numbers.
func (c Channel) RevealsNumber() bool {
	return c == ChannelCall || c == ChannelWhatsApp
}

// State is the disclosure state of one (context, channel) pair.
type State string

const (
	StateUnrevealed       State = "unrevealed"
	StateAwaitingIdentity State = "awaiting_identity"
	StateAutoSubmitting   State = "auto_submitting"
	StateSubmitting       State = "submitting"
	StateRevealed         State = "revealed"
	StateSent             State = "sent"
	StateFailed           State = "failed"
)

// InFlight reports whether a submission is running.
func (s State) InFlight() bool {
	return s == StateSubmitting || s == StateAutoSubmitting
}
