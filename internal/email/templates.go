package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type enquiryReceiptEmailData struct {
	baseEmailData
	VisitorName string
	Subject     string
	Message     string
	Alerts      bool
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderEnquiryReceipt(receipt EnquiryReceipt) (subject, content string, err error) {
	topic := strings.TrimSpace(receipt.Subject)
	if topic == "" {
		topic = defaultEnquirySubject
	}

	content, err = renderEmailTemplate("enquiry_receipt.html", enquiryReceiptEmailData{
		baseEmailData: baseEmailData{
			Title:      "Enquiry received",
			Heading:    "We passed your enquiry on",
			Subheading: topic,
		},
		VisitorName: receipt.VisitorName,
		Subject:     topic,
		Message:     receipt.Message,
		Alerts:      receipt.Alerts,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectEnquiryReceiptFmt, topic), content, nil
}
