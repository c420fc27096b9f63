package queue

// QueueBookingConfirmed is the durable queue between the payment reconciler
// and the notifier worker.
const QueueBookingConfirmed = "booking.confirmed"

// BookingConfirmedEvent is published exactly once per booking confirmation,
// after the status transition has been committed. The worker re-reads the
// booking by ID, so the payload stays a thin reference.
type BookingConfirmedEvent struct {
	BookingID       string `json:"booking_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	ReferenceNumber string `json:"reference_number"`
	ConfirmedAt     string `json:"confirmed_at"`
}
