package payment

type CreateSessionRequest struct {
	BookingID string  `json:"booking_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency"`
}

// SessionHandle is what the checkout page needs to hand the provider UI.
type SessionHandle struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
}

type ConfirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
	BookingID       string `json:"booking_id" validate:"required"`
}

// ReconciliationResult reports the outcome of one confirmation attempt.
// Repeated attempts against a terminal state return the same result.
type ReconciliationResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
