package domain

import (
	"errors"
	"testing"
)

func TestContextKey(t *testing.T) {
	tests := []struct {
		kind Kind
		id   string
		want string
	}{
		{KindListing, "1001", "listing:1001"},
		{KindProject, "77", "project:77"},
		{KindListing, "", "listing:"},
		{KindProject, "a:b", "project:a:b"},
	}

	for _, tt := range tests {
		if got := ContextKey(tt.kind, tt.id); got != tt.want {
			t.Errorf("ContextKey(%q, %q) = %q, want %q", tt.kind, tt.id, got, tt.want)
		}
	}
}

func TestContextKeyIsInjective(t *testing.T) {
	inputs := []ContactContext{
		{KindListing, "1"},
		{KindListing, "10"},
		{KindProject, "1"},
		{KindListing, "1:project"},
		{KindProject, "listing:1"},
		{KindListing, ""},
		{KindProject, ""},
	}

	seen := make(map[string]ContactContext)
	for _, in := range inputs {
		key := in.Key()
		if prev, ok := seen[key]; ok {
			t.Fatalf("key %q produced by both %+v and %+v", key, prev, in)
		}
		seen[key] = in

		back, err := ParseContextKey(key)
		if err != nil {
			t.Fatalf("ParseContextKey(%q): %v", key, err)
		}
		if back != in {
			t.Errorf("round trip of %+v gave %+v", in, back)
		}
	}
}

func TestParseContextKeyRejects(t *testing.T) {
	for _, key := range []string{"", "listing", "agent:1", "LISTING:1"} {
		if _, err := ParseContextKey(key); !errors.Is(err, ErrInvalidContextKey) {
			t.Errorf("ParseContextKey(%q) error = %v, want ErrInvalidContextKey", key, err)
		}
	}
}

func TestParseChannel(t *testing.T) {
	for _, name := range []string{"call", "WhatsApp", " email "} {
		if _, err := ParseChannel(name); err != nil {
			t.Errorf("ParseChannel(%q): %v", name, err)
		}
	}
	if _, err := ParseChannel("sms"); !errors.Is(err, ErrInvalidChannel) {
		t.Errorf("expected ErrInvalidChannel for sms, got %v", err)
	}
	if ChannelEmail.RevealsNumber() {
		t.Error("email must not reveal numbers")
	}
}
