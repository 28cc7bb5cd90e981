// Package domain contains the core types of the contact disclosure context:
// entity contexts and their keys, visitor identity, revealed numbers, channels and states.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the kind of entity a contact surface belongs to.
type Kind string

const (
	KindListing Kind = "listing"
	KindProject Kind = "project"
)

// ErrInvalidKind is returned for unknown entity kinds.
var ErrInvalidKind = errors.New("invalid entity kind")

// ErrInvalidContextKey is returned when a context key cannot be parsed.
var ErrInvalidContextKey = errors.New("invalid context key")

// ParseKind validates an entity kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindListing:
		return KindListing, nil
	case KindProject:
		return KindProject, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, value)
	}
}

// ContactContext identifies the listing or project a contact action targets.
type ContactContext struct {
	Kind     Kind
	EntityID string
}

// NewContactContext validates kind and builds a context. The entity id is kept verbatim.
func NewContactContext(kind, entityID string) (ContactContext, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return ContactContext{}, err
	}
	return ContactContext{Kind: k, EntityID: entityID}, nil
}

// ContextKey returns "<kind>:<entityId>". Kinds never contain ':' so the key is injective.
// An empty id yields the degenerate key "<kind>:".
func ContextKey(kind Kind, entityID string) string {
	return string(kind) + ":" + entityID
}

// Key returns the context key of c.
func (c ContactContext) Key() string {
	return ContextKey(c.Kind, c.EntityID)
}

// ParseContextKey is the inverse of ContextKey.
func ParseContextKey(key string) (ContactContext, error) {
	kind, id, ok := strings.Cut(key, ":")
	if !ok {
		return ContactContext{}, fmt.Errorf("%w: %q", ErrInvalidContextKey, key)
	}
	k, err := ParseKind(kind)
	if err != nil || string(k) != kind {
		return ContactContext{}, fmt.Errorf("%w: %q", ErrInvalidContextKey, key)
	}
	return ContactContext{Kind: k, EntityID: id}, nil
}
