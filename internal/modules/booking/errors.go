package booking

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventInactive      = errors.New("event is not open for booking")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrDuplicateReference = errors.New("reference number already exists")
)

// ValidationError carries field-scoped messages back to the form. No side
// effects have happened when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}
