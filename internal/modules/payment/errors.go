package payment

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrBookingNotPayable: the booking has already left pending state.
	ErrBookingNotPayable = errors.New("booking is not payable")

	// Fatal validation failures. Never retried; they indicate a programming
	// or tampering error, not a transient condition.
	ErrAmountMismatch   = errors.New("amount does not match booking total")
	ErrAmountOutOfRange = errors.New("amount outside transactable bounds")
	ErrInvalidCurrency  = errors.New("invalid currency")
	ErrIdentityMismatch = errors.New("payment intent does not match booking")
)
