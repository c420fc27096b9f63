package catalog

import (
	"context"

	"artclub/internal/domain"
)

type EventStore interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Event, error)
}

type TicketCounter interface {
	CountTicketsByEvent(ctx context.Context, eventID string) (int, error)
}
