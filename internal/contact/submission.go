// Package contact implements the contact form pipeline: rate limiting,
// bot and spam screening, field validation, and hand-off to delivery.
package contact

import "strings"

// UnknownClient is the rate limit key used when no client address is known.
const UnknownClient = "unknown"

// Submission is raw contact form input.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
	// Honeypot is a field hidden from humans; bots tend to fill it in.
	Honeypot string
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (s Submission) Trimmed() Submission {
	return Submission{
		Name:     strings.TrimSpace(s.Name),
		Email:    strings.TrimSpace(s.Email),
		Subject:  strings.TrimSpace(s.Subject),
		Message:  strings.TrimSpace(s.Message),
		Honeypot: strings.TrimSpace(s.Honeypot),
	}
}

// IsBot reports whether the honeypot field was filled in.
func (s Submission) IsBot() bool {
	return strings.TrimSpace(s.Honeypot) != ""
}

// Result describes an accepted submission.
type Result struct {
	// ID identifies a delivered submission. Empty when Dropped.
	ID string
	// Dropped is true for honeypot hits, which are acknowledged but not delivered.
	Dropped bool
}

// ClientKey derives the rate limit key from proxy headers: the first
// X-Forwarded-For value, else X-Real-IP, else UnknownClient.
func ClientKey(forwardedFor, realIP string) string {
	if first, _, _ := strings.Cut(forwardedFor, ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(realIP); ip != "" {
		return ip
	}
	return UnknownClient
}
