package domain

import "testing"

func TestWhatsAppLink(t *testing.T) {
	text := WhatsAppGreeting("", "Ama Mensah", "0244123456")
	got := WhatsAppLink("+233 24 412 3456", text)
	want := "https://wa.me/233244123456?text=Hi%2C%20I%27m%20interested%20in%20this%20property.%20My%20name%20is%20Ama%20Mensah%20and%20my%20phone%20is%200244123456."
	if got != want {
		t.Fatalf("WhatsAppLink = %q\nwant %q", got, want)
	}

	if got := WhatsAppLink("0244-123-456", ""); got != "https://wa.me/0244123456" {
		t.Errorf("bare link = %q", got)
	}
}

func TestWhatsAppGreetingSubject(t *testing.T) {
	got := WhatsAppGreeting("properties from Oak Estates", "Kofi", "+233244123456")
	want := "Hi, I'm interested in properties from Oak Estates. My name is Kofi and my phone is +233244123456."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTelLink(t *testing.T) {
	tests := map[string]string{
		"+233 24 412 3456": "tel:+233244123456",
		"024 412 3456":     "tel:0244123456",
	}
	for in, want := range tests {
		if got := TelLink(in); got != want {
			t.Errorf("TelLink(%q) = %q, want %q", in, got, want)
		}
	}
}
