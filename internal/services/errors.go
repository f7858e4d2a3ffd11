package services

import (
	"errors"
	"fmt"

	"desynflow-backend/internal/validation"
)

var (
	// ErrConflict means the record changed since the caller read it, or a
	// concurrent actor won the same transition. Maps to HTTP 409.
	ErrConflict = errors.New("record was modified by another request")

	// ErrInvalidState means the requested transition is not allowed from
	// the record's current status. Maps to HTTP 422.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrForbidden means the caller is authenticated but not the owner of
	// the record. Maps to HTTP 403.
	ErrForbidden = errors.New("not allowed")

	ErrNotFound = errors.New("record not found")

	// ErrBadInput marks malformed or out-of-range input that field-level
	// validation does not cover. Maps to HTTP 400.
	ErrBadInput = errors.New("bad input")
)

func badInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrBadInput}, args...)...)
}

// ValidationError wraps field-level validation failures for the handler
// layer to render as a 400 with the field map.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

func validationErr(fields validation.Errors) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
