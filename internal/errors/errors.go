// Package errors provides structured error handling for the site backend.
// Errors carry a category that decides how they surface at the HTTP boundary,
// a user-facing message, optional diagnostic detail, and remediation guidance
// for the CLI.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Validation errors are caused by malformed or abusive user input.
	Validation ErrorCategory = iota
	// RateLimit errors occur when a client exceeds its submission quota.
	RateLimit
	// Delivery errors occur when a required outbound notification fails.
	Delivery
	// Retrieval errors occur when a document could not be fetched or parsed.
	Retrieval
	// NotFound errors occur when a requested document or version does not exist.
	NotFound
	// Configuration errors are caused by invalid or missing configuration.
	Configuration
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Validation:
		return "Validation Error"
	case RateLimit:
		return "Rate Limit Error"
	case Delivery:
		return "Delivery Error"
	case Retrieval:
		return "Retrieval Error"
	case NotFound:
		return "Not Found"
	case Configuration:
		return "Configuration Error"
	default:
		return "Error"
	}
}

// HTTPStatus maps the category to the status code used at the HTTP boundary.
func (c ErrorCategory) HTTPStatus() int {
	switch c {
	case Validation:
		return http.StatusBadRequest
	case RateLimit:
		return http.StatusTooManyRequests
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a structured error with category and remediation guidance.
type Error struct {
	// Category is the type of error (Validation, Retrieval, etc.)
	Category ErrorCategory
	// Message is a human-readable description safe to show to end users.
	Message string
	// Detail is diagnostic information, only exposed outside production.
	Detail string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code for this error's category.
func (e *Error) HTTPStatus() int {
	return e.Category.HTTPStatus()
}

// Diagnostic returns the detail if set, otherwise the cause chain.
func (e *Error) Diagnostic() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, remediation ...string) *Error {
	return &Error{
		Category:    Validation,
		Message:     message,
		Remediation: remediation,
	}
}

// NewRateLimitError creates a new rate limit error.
func NewRateLimitError(message string, remediation ...string) *Error {
	return &Error{
		Category:    RateLimit,
		Message:     message,
		Remediation: remediation,
	}
}

// NewDeliveryError creates a delivery error wrapping the send failure.
func NewDeliveryError(message string, err error) *Error {
	return &Error{
		Category: Delivery,
		Message:  message,
		Err:      err,
	}
}

// NewRetrievalError creates a retrieval error wrapping the final cause.
func NewRetrievalError(message string, err error, remediation ...string) *Error {
	return &Error{
		Category:    Retrieval,
		Message:     message,
		Err:         err,
		Remediation: remediation,
	}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(message string, err error, remediation ...string) *Error {
	return &Error{
		Category:    NotFound,
		Message:     message,
		Err:         err,
		Remediation: remediation,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *Error {
	return &Error{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap wraps an existing error with a category, preserving the original message.
func Wrap(err error, category ErrorCategory, remediation ...string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Category:    category,
		Message:     message,
		Err:         err,
		Remediation: remediation,
	}
}

// As attempts to find an *Error in err's chain.
// Returns nil if there is none.
func As(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return nil
}

// Is reports whether err's chain contains an *Error of the given category.
func Is(err error, category ErrorCategory) bool {
	e := As(err)
	return e != nil && e.Category == category
}

// IsRetrieval reports whether err is a changelog retrieval failure,
// including the not-found case.
func IsRetrieval(err error) bool {
	return Is(err, Retrieval) || Is(err, NotFound)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return Is(err, Validation)
}

// IsRateLimit reports whether err is a rate limit failure.
func IsRateLimit(err error) bool {
	return Is(err, RateLimit)
}

// IsDelivery reports whether err is a delivery failure.
func IsDelivery(err error) bool {
	return Is(err, Delivery)
}

// StatusOf returns the HTTP status for any error, defaulting to 500.
func StatusOf(err error) int {
	if e := As(err); e != nil {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
