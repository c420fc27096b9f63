package admin

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidStatus   = errors.New("invalid target status")
	ErrNotOverridable  = errors.New("booking is no longer pending")
	ErrNotConfirmed    = errors.New("booking is not confirmed")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

func validationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}
