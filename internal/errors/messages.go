package errors

import "fmt"

// Common error messages shared by the changelog and contact pipelines.
// These templates keep user-facing wording consistent between the API and CLI.

// ChangelogUnavailable creates an error for when neither the remote source
// nor the local fallback file could supply a changelog.
func ChangelogUnavailable(fallbackPath string, cause error) *Error {
	return NewNotFoundError(
		"Changelog not available. Please configure CHANGELOG_URL environment variable or add CHANGELOG.json locally.",
		cause,
		"Set OPENICONS_CHANGELOG_URL to a raw JSON URL or a GitHub contents API URL",
		fmt.Sprintf("Or place a changelog file at %s", fallbackPath),
	)
}

// ChangelogUnparseable creates an error for a local fallback file that exists
// but does not decode into a changelog document.
func ChangelogUnparseable(path string, cause error) *Error {
	return NewRetrievalError(
		"Failed to parse local changelog file",
		fmt.Errorf("%s: %w", path, cause),
		"Check the file with 'openicons changelog check "+path+"'",
	)
}

// VersionNotFound creates an error for a version lookup miss.
func VersionNotFound(version string, available []string) *Error {
	return &Error{
		Category: NotFound,
		Message:  fmt.Sprintf("Version %q not found", version),
		Detail:   fmt.Sprintf("available: %v", available),
	}
}

// RateLimited creates the error returned when a client exceeds its quota.
func RateLimited() *Error {
	return NewRateLimitError("Too many requests. Please try again later.")
}

// MissingRequiredFields creates the error for an incomplete submission.
func MissingRequiredFields() *Error {
	return NewValidationError("Missing required fields")
}

// SpamDetected creates the error for a submission matching a spam heuristic.
func SpamDetected() *Error {
	return NewValidationError("Your message was flagged as spam. Please revise and try again.")
}

// FieldTooLong creates the error for a field exceeding its length bound.
func FieldTooLong(field string, max int) *Error {
	return NewValidationError(fmt.Sprintf("%s must be %d characters or fewer", field, max))
}

// InvalidEmail creates the error for a malformed email address.
func InvalidEmail() *Error {
	return NewValidationError("Invalid email address")
}

// SendFailed creates the error for a failed required email send.
func SendFailed(cause error) *Error {
	return NewDeliveryError("Failed to send message. Please try again later.", cause)
}
