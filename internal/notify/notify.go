// Package notify delivers accepted contact submissions: a required
// transactional email and an optional best-effort automation webhook.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSubject is used when a submission has no subject.
const DefaultSubject = "Contact Form Submission"

// DefaultEmailAPIURL is the transactional email endpoint.
const DefaultEmailAPIURL = "https://api.resend.com/emails"

// DefaultTimeout bounds a single outbound notification request.
const DefaultTimeout = 10 * time.Second

// Config holds delivery settings.
type Config struct {
	// EmailAPIURL is the provider's send endpoint.
	EmailAPIURL string `yaml:"email_api_url" json:"email_api_url" koanf:"email_api_url" validate:"required,url"`
	// EmailAPIKey authorizes email sends. Empty disables the email sender.
	EmailAPIKey string `yaml:"email_api_key" json:"email_api_key" koanf:"email_api_key"`
	// From is the sender address.
	From string `yaml:"email_from" json:"email_from" koanf:"email_from" validate:"required_with=EmailAPIKey"`
	// To is the recipient address.
	To string `yaml:"email_to" json:"email_to" koanf:"email_to" validate:"required_with=EmailAPIKey"`
	// WebhookURL receives a JSON copy of each submission. Empty skips the webhook.
	WebhookURL string `yaml:"webhook_url" json:"webhook_url" koanf:"webhook_url" validate:"omitempty,url"`
	// Timeout bounds each outbound request (default: 10s).
	Timeout time.Duration `yaml:"webhook_timeout" json:"webhook_timeout" koanf:"webhook_timeout" validate:"gt=0"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		EmailAPIURL: DefaultEmailAPIURL,
		Timeout:     DefaultTimeout,
	}
}

// Notification is one accepted submission ready for delivery.
type Notification struct {
	// ID identifies the submission across logs, email headers and webhook payloads.
	ID string
	// Name, Email, Subject and Message are the trimmed submission fields.
	Name    string
	Email   string
	Subject string
	Message string
	// Timestamp is when the submission was accepted.
	Timestamp time.Time
}

// NewNotification creates a Notification with a fresh ID.
func NewNotification(name, email, subject, message string, at time.Time) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   message,
		Timestamp: at.UTC(),
	}
}

// DisplaySubject returns the subject, or DefaultSubject when empty.
func (n Notification) DisplaySubject() string {
	if n.Subject == "" {
		return DefaultSubject
	}
	return n.Subject
}
