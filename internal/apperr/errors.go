package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates a missing, malformed, or expired credential token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound indicates the record does not exist for the requesting principal.
	// Ownership mismatches surface as this same error so record existence never leaks.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail indicates a registration attempt with an already-used email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrStorage indicates the persistence layer failed; details are logged, never
	// returned to callers.
	ErrStorage = errors.New("storage unavailable")
)

// ValidationError reports the first rejected field of a client payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// NewValidation constructs a ValidationError for the given field.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation reports whether err is a ValidationError and returns it.
func AsValidation(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
