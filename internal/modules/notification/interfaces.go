package notification

import (
	"context"

	"artclub/internal/domain"
)

type BookingStore interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	SetEmailSent(ctx context.Context, id string, sent bool) error
}

type EventReader interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}
