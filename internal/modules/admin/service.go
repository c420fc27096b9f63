package admin

import (
	"context"
	"errors"

	"artclub/internal/domain"
	"artclub/internal/pkg/validator"
	"artclub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service struct {
	bookings BookingStore
	payments PaymentStore
	events   EventStore
	sender   ConfirmationSender
	catalog  CatalogInvalidator
	feed     LifecycleFeed
	logger   *logrus.Logger
}

type ServiceProperty struct {
	Bookings BookingStore
	Payments PaymentStore
	Events   EventStore
	Sender   ConfirmationSender
	Catalog  CatalogInvalidator
	Feed     LifecycleFeed
	Logger   *logrus.Logger
}

func NewService(p ServiceProperty) *Service {
	return &Service{
		bookings: p.Bookings,
		payments: p.Payments,
		events:   p.Events,
		sender:   p.Sender,
		catalog:  p.Catalog,
		feed:     p.Feed,
		logger:   p.Logger,
	}
}

func (s *Service) ListBookings(ctx context.Context, q ListBookingsQuery) ([]BookingRow, error) {
	bookings, err := s.bookings.List(ctx, repository.BookingFilters{
		EventID: q.EventID,
		Status:  q.Status,
		Limit:   q.Limit,
		Offset:  q.Offset,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]BookingRow, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		p, err := s.payments.FindCurrentByBookingID(ctx, b.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		rows = append(rows, toBookingRow(b, p))
	}
	return rows, nil
}

// OverrideBookingStatus forces a pending booking to confirmed or cancelled.
// It goes through the same conditional status write as payment reconciliation,
// so an override racing a confirmation can never double-apply.
func (s *Service) OverrideBookingStatus(ctx context.Context, id string, target string) (*domain.Booking, error) {
	next := domain.BookingStatus(target)
	if next != domain.BookingConfirmed && next != domain.BookingCancelled {
		return nil, ErrInvalidStatus
	}

	applied, err := s.bookings.UpdateStatus(ctx, id, domain.BookingPending, next)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !applied {
		if b.Status == next {
			return b, nil
		}
		return nil, ErrNotOverridable
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"status":     target,
	}).Info("booking status overridden")

	if s.feed != nil {
		s.feed.Publish("booking."+target, b)
	}
	return b, nil
}

// ResendConfirmation re-sends the confirmation e-mail for an already
// confirmed booking, synchronously.
func (s *Service) ResendConfirmation(ctx context.Context, id string) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	if b.Status != domain.BookingConfirmed {
		return ErrNotConfirmed
	}
	return s.sender.SendBookingConfirmation(ctx, b.ID)
}

func (s *Service) CreateEvent(ctx context.Context, req EventRequest) (*domain.Event, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, validationError(fields)
	}

	e := &domain.Event{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		PhotoboothPrice: req.PhotoboothPrice,
		Capacity:        req.Capacity,
		StartsAt:        req.StartsAt,
		Venue:           req.Venue,
		ImageURL:        req.ImageURL,
		Active:          true,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}

	s.catalog.InvalidateList(ctx)
	s.logger.WithField("event_id", e.ID).Info("event created")
	return e, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id string, req EventRequest) (*domain.Event, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, validationError(fields)
	}

	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	e.Title = req.Title
	e.Description = req.Description
	e.Price = req.Price
	e.PhotoboothPrice = req.PhotoboothPrice
	e.Capacity = req.Capacity
	e.StartsAt = req.StartsAt
	e.Venue = req.Venue
	e.ImageURL = req.ImageURL

	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}

	s.catalog.InvalidateList(ctx)
	return e, nil
}

func (s *Service) SetEventActive(ctx context.Context, id string, active bool) error {
	if _, err := s.events.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if err := s.events.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.catalog.InvalidateList(ctx)
	return nil
}

func (s *Service) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx, false)
}
