package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest matches every ValidationError.
	ErrInvalidRequest = errors.New("invalid request")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminSignupClosed  = errors.New("admin signup is closed")
)

// ValidationError names the rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidRequest }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
