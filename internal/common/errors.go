// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrDatabaseCorrupted = errors.New("database corrupted")

	// Registry errors.
	ErrDuplicateType = errors.New("document type already registered")
	ErrUnknownType   = errors.New("unknown document type")

	// Extraction errors.
	ErrCollaboratorUnavailable = errors.New("extraction collaborator unavailable")
	ErrOCR                     = errors.New("ocr failed")
	ErrExtractionFailed        = errors.New("extraction failed")

	// Calculation errors.
	ErrInvalidField = errors.New("invalid field value")

	// Queue errors.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("concurrent transition in flight")
	ErrEmptyReason       = errors.New("a non-empty reason is required")
	ErrNotPermitted      = errors.New("actor lacks required capability")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	// Collaborator outages and timeouts are transient; caller errors are not.
	if errors.Is(err, ErrCollaboratorUnavailable) ||
		errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
