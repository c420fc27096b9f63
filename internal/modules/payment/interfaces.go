package payment

import (
	"context"

	"artclub/internal/domain"
	"artclub/internal/queue"
)

type BookingStore interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, expectedCurrent, next domain.BookingStatus) (bool, error)
	SetPaymentIntentID(ctx context.Context, id, intentID string) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error)
	FindCurrentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)
	UpdateStatusByIntentID(ctx context.Context, intentID string, status domain.PaymentStatus, latestChargeID, errorMessage string) error
}

type ConfirmationEnqueuer interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// LifecycleFeed mirrors booking.LifecycleFeed for the admin live feed.
type LifecycleFeed interface {
	Publish(eventType string, b *domain.Booking)
}
