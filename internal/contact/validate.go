package contact

import (
	"log"
	"regexp"
	"unicode/utf8"

	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
)

// Field length bounds, in characters, after trimming.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 255
	MaxMessageLength = 5000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks a trimmed submission: required fields, spam heuristics,
// length bounds and email shape, in that order. The first failure is
// returned as a Validation *errors.Error.
func Validate(s Submission) error {
	if s.Name == "" || s.Email == "" || s.Message == "" {
		return siteerrors.MissingRequiredFields()
	}

	if reason := SpamReason(s); reason != "" {
		log.Printf("[contact] spam heuristic matched: %s", reason)
		return siteerrors.SpamDetected()
	}

	switch {
	case utf8.RuneCountInString(s.Name) > MaxNameLength:
		return siteerrors.FieldTooLong("Name", MaxNameLength)
	case utf8.RuneCountInString(s.Email) > MaxEmailLength:
		return siteerrors.FieldTooLong("Email", MaxEmailLength)
	case utf8.RuneCountInString(s.Message) > MaxMessageLength:
		return siteerrors.FieldTooLong("Message", MaxMessageLength)
	}

	if !emailPattern.MatchString(s.Email) {
		return siteerrors.InvalidEmail()
	}
	return nil
}
