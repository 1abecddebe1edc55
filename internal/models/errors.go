package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories, services and handlers.
// Handlers map them to HTTP status codes in one place.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrTemplateMissing = errors.New("no agreement template configured")
	ErrSelfDelete      = errors.New("cannot delete your own account")
	ErrInvalidLogin    = errors.New("invalid credentials")
)

// ValidationError names the offending field. It unwraps to ErrValidation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a field level validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
