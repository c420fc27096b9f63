package admin

import (
	"context"

	"artclub/internal/domain"
	"artclub/internal/repository"
)

type BookingStore interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filters repository.BookingFilters) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, expectedCurrent, next domain.BookingStatus) (bool, error)
}

type PaymentStore interface {
	FindCurrentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)
}

type EventStore interface {
	Create(ctx context.Context, e *domain.Event) error
	Update(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Event, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// ConfirmationSender resends the confirmation e-mail synchronously.
type ConfirmationSender interface {
	SendBookingConfirmation(ctx context.Context, bookingID string) error
}

// CatalogInvalidator drops cached catalog reads after an event mutation.
type CatalogInvalidator interface {
	InvalidateList(ctx context.Context)
}

type LifecycleFeed interface {
	Publish(eventType string, b *domain.Booking)
}
