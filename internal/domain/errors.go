package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict: the requested range overlaps a confirmed reservation.
	// Routine outcome, not a fault.
	ErrConflict = errors.New("room is unavailable for the requested dates")

	// ErrNotFound: unknown room or reservation.
	ErrNotFound = errors.New("not found")
)

// ValidationError marks requests rejected before touching shared state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
