package booking

import (
	"context"

	"artclub/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

type EventReader interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}
