package validation

import (
	"strings"

	"listing_portal_backend/internal/contact/domain"
	"listing_portal_backend/platform/sanitize"
)

// FieldErrors maps a form field to its user-facing message.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

func (f FieldErrors) add(field, message string) {
	if message != "" {
		f[field] = message
	}
}

// Validator checks contact forms against a default phone region.
type Validator struct {
	defaultRegion string
}

// New creates a Validator. An empty region falls back to the platform default.
func New(defaultRegion string) *Validator {
	return &Validator{defaultRegion: strings.ToUpper(strings.TrimSpace(defaultRegion))}
}

// ValidateForm checks name and phone for every channel, plus email and message for
// the email channel. The form's own country wins over the default region.
func (v *Validator) ValidateForm(channel domain.Channel, draft domain.FormDraft) FieldErrors {
	errs := FieldErrors{}
	errs.add("name", NameError(draft.Name))

	region := draft.CountryISO
	if strings.TrimSpace(region) == "" {
		region = v.defaultRegion
	}
	errs.add("phone", PhoneError(draft.Phone, region))

	if channel == domain.ChannelEmail {
		errs.add("email", EmailError(draft.Email))
		errs.add("message", MessageError(draft.Message))
	}
	return errs
}

// Sanitize returns a copy of draft with every free-text field cleaned.
func (v *Validator) Sanitize(draft domain.FormDraft) domain.FormDraft {
	draft.Name = strings.TrimSpace(SanitizeName(draft.Name))
	draft.Phone = strings.TrimSpace(draft.Phone)
	draft.CountryISO = strings.ToUpper(strings.TrimSpace(draft.CountryISO))
	draft.Email = SanitizeEmail(draft.Email)
	draft.Message = SanitizeMessage(draft.Message)
	draft.Subject = sanitize.Text(SanitizeMessage(draft.Subject))
	return draft
}
