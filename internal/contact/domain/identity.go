package domain

import "strings"

// UserIdentity is the visitor's own contact identity, shared by every listing and project.
type UserIdentity struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	CountryISO string `json:"countryIso"`
}

// Complete reports whether the identity carries the fields needed to auto-submit.
func (u UserIdentity) Complete() bool {
	return strings.TrimSpace(u.Name) != "" && strings.TrimSpace(u.Phone) != ""
}

// RevealedNumbers are the agent numbers disclosed for one context key.
// JSON names follow the listings API.
type RevealedNumbers struct {
	DisplayNumber  string `json:"stph2"`
	WhatsAppNumber string `json:"stph3"`
}

// Complete reports whether both numbers are present.
func (n RevealedNumbers) Complete() bool {
	return strings.TrimSpace(n.DisplayNumber) != "" && strings.TrimSpace(n.WhatsAppNumber) != ""
}

// FormDraft is the transient content of a contact form. It is never persisted.
type FormDraft struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	CountryISO string `json:"countryIso"`
	Email      string `json:"email,omitempty"`
	Message    string `json:"message,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Alerts     bool   `json:"alerts,omitempty"`
}

// DraftFromIdentity pre-fills a form from a saved identity.
func DraftFromIdentity(identity *UserIdentity) FormDraft {
	if identity == nil {
		return FormDraft{}
	}
	return FormDraft{
		Name:       identity.Name,
		Phone:      identity.Phone,
		CountryISO: identity.CountryISO,
	}
}

// Identity returns the identity carried by the draft.
func (f FormDraft) Identity() UserIdentity {
	return UserIdentity{
		Name:       f.Name,
		Phone:      f.Phone,
		CountryISO: strings.ToUpper(f.CountryISO),
	}
}
