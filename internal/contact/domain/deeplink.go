package domain

import (
	"fmt"
	"net/url"
	"strings"
)

const defaultSubject = "this property"

// Digits keeps only ASCII digits.
func Digits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppGreeting builds the pre-filled message sent with a WhatsApp deep link.
func WhatsAppGreeting(subject, name, phone string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = defaultSubject
	}
	return fmt.Sprintf("Hi, I'm interested in %s. My name is %s and my phone is %s.", subject, name, phone)
}

// WhatsAppLink returns a wa.me link for number (digits only) carrying text.
func WhatsAppLink(number, text string) string {
	link := "https://wa.me/" + Digits(number)
	if text == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// TelLink returns a tel: URI for number, keeping a leading '+'.
func TelLink(number string) string {
	number = strings.TrimSpace(number)
	prefix := ""
	if strings.HasPrefix(number, "+") {
		prefix = "+"
	}
	return "tel:" + prefix + Digits(number)
}
