package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// DecisionEmailData holds data for the accepted / waitlisted / denied emails.
type DecisionEmailData struct {
	Email     string
	Name      string
	Decision  Decision
	EventName string
	// QRImageURL is set for accepted applicants; it may be an https URL or a data URI.
	QRImageURL string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendDecision(ctx context.Context, data *DecisionEmailData) error
}
