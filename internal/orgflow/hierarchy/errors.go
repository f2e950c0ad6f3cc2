package hierarchy

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("hierarchy: not found")
	ErrPermissionDenied       = errors.New("hierarchy: permission denied")
	ErrValidation             = errors.New("hierarchy: validation failed")
	ErrPersistenceUnavailable = errors.New("hierarchy: persistence unavailable")

	// ErrNoIdentity is returned when a Gate is opened without a caller identity.
	// Callers must send the actor through authentication instead of continuing.
	ErrNoIdentity = errors.New("hierarchy: no identity")

	// ErrMalformedSnapshot is returned by DecodeSnapshot for blobs that do not
	// have the expected shape.
	ErrMalformedSnapshot = errors.New("hierarchy: malformed snapshot")
)

// ValidationError reports which input field was rejected. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("hierarchy: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
