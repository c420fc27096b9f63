package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"artclub/internal/domain"
	"artclub/internal/pkg/validator"
	"artclub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LifecycleFeed receives booking lifecycle events for the admin live feed.
// Optional; delivery is fire-and-forget.
type LifecycleFeed interface {
	Publish(eventType string, b *domain.Booking)
}

type Service struct {
	bookings BookingRepository
	events   EventReader
	feed     LifecycleFeed
	logger   *logrus.Logger
}

func NewService(bookings BookingRepository, events EventReader, feed LifecycleFeed, logger *logrus.Logger) *Service {
	return &Service{
		bookings: bookings,
		events:   events,
		feed:     feed,
		logger:   logger,
	}
}

// CreateBooking validates the attendee form, prices the order and persists a
// pending booking. total_price is fixed here and never recomputed later, so
// a price change on the event cannot race a payment in flight.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	verr := NewValidationError()
	for field, msg := range validator.Validate(req) {
		verr.Add(field, msg)
	}

	pkg := domain.PackageType(req.PackageType)
	if req.PackageType == "" {
		pkg = domain.PackageMovie
	}

	// Event existence is checked before the ticket bound so the capacity in
	// the error message is real.
	e, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !e.Active {
		return nil, ErrEventInactive
	}

	if req.TicketsCount < 1 || req.TicketsCount > e.Capacity {
		verr.Add("TicketsCount", fmt.Sprintf("Must be between 1 and %d", e.Capacity))
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	unit := pkg.UnitPrice(e)
	total := math.Round(unit*float64(req.TicketsCount)*100) / 100

	now := time.Now().UTC()
	b := &domain.Booking{
		ID:              uuid.NewString(),
		EventID:         e.ID,
		CustomerName:    strings.TrimSpace(req.Name),
		CustomerEmail:   strings.TrimSpace(req.Email),
		CustomerPhone:   strings.TrimSpace(req.Phone),
		StudentID:       strings.TrimSpace(req.StudentID),
		PackageType:     pkg,
		TicketsCount:    req.TicketsCount,
		TotalPrice:      total,
		ReferenceNumber: NewReferenceNumber(now),
		Status:          domain.BookingPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateReference) {
			return nil, ErrDuplicateReference
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"event_id":   b.EventID,
		"reference":  b.ReferenceNumber,
		"total":      b.TotalPrice,
	}).Info("booking created")

	if s.feed != nil {
		s.feed.Publish("booking.created", b)
	}

	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}
