package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned across the service boundary matches
// exactly one of these with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrUniquenessConflict = errors.New("uniqueness conflict")
	ErrAlreadyBlacklisted = errors.New("token already blacklisted")
)

// ValidationError describes malformed or inconsistent input. Field is
// empty when the problem is not tied to one input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConflictError is a unique-constraint violation on one account field.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *ConflictError) Unwrap() []error {
	return []error{ErrUniquenessConflict, e.Err}
}
