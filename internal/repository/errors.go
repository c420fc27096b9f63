package repository

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateReference signals a reference_number collision on insert.
	// Reference numbers are timestamp-derived and only unique-enough, so the
	// store enforces uniqueness as the backstop.
	ErrDuplicateReference = errors.New("duplicate reference number")
)
