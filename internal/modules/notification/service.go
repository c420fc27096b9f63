package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"artclub/internal/domain"
	"artclub/internal/pkg/retry"
	"artclub/internal/provider/email"

	"github.com/sirupsen/logrus"
)

type Service struct {
	bookings BookingStore
	events   EventReader
	mailer   email.Sender
	logger   *logrus.Logger
	retryCfg retry.Config
}

func NewService(bookings BookingStore, events EventReader, mailer email.Sender, logger *logrus.Logger, attempts int, baseDelay time.Duration) *Service {
	return &Service{
		bookings: bookings,
		events:   events,
		mailer:   mailer,
		logger:   logger,
		retryCfg: retry.Config{Attempts: attempts, BaseDelay: baseDelay},
	}
}

// SendBookingConfirmation delivers the confirmation e-mail for a booking with
// bounded retries. Exhaustion is reported to the operator log and returned as
// ErrDeliveryFailed; it never propagates into the booking's status.
func (s *Service) SendBookingConfirmation(ctx context.Context, bookingID string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	e, err := s.events.GetByID(ctx, b.EventID)
	if err != nil {
		return err
	}

	if err := validateTemplateFields(b, e); err != nil {
		s.logger.WithError(err).WithField("booking_id", b.ID).Error("confirmation not sendable")
		return err
	}

	msg := email.Message{
		To:     b.CustomerEmail,
		ToName: b.CustomerName,
		Fields: map[string]string{
			"reference_number": b.ReferenceNumber,
			"event_title":      e.Title,
			"event_date":       e.StartsAt.Format("Monday, 2 January 2006 at 15:04"),
			"event_venue":      e.Venue,
			"tickets_count":    strconv.Itoa(b.TicketsCount),
			"package_type":     string(b.PackageType),
			"package_price":    fmt.Sprintf("%.2f", b.PackageType.UnitPrice(e)),
			"total_amount":     fmt.Sprintf("%.2f", b.TotalPrice),
		},
	}

	attempts := 0
	err = retry.Do(ctx, s.retryCfg, func(ctx context.Context) error {
		attempts++
		_, sendErr := s.mailer.Send(ctx, msg)
		return sendErr
	}, transient)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"booking_id": b.ID,
			"attempts":   attempts,
		}).Error("confirmation delivery exhausted")
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	// A later manual resend overwrites the flag idempotently.
	if err := s.bookings.SetEmailSent(ctx, b.ID, true); err != nil {
		s.logger.WithError(err).WithField("booking_id", b.ID).Error("failed to mark email_sent")
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"attempts":   attempts,
	}).Info("confirmation delivered")
	return nil
}

// transient: transport failures and provider 429/5xx are worth another
// attempt; a permanent rejection is not.
func transient(err error) bool {
	return errors.Is(err, email.ErrUnavailable) || retry.IsRetryable(err)
}

func validateTemplateFields(b *domain.Booking, e *domain.Event) error {
	var missing []string
	if b.CustomerEmail == "" {
		missing = append(missing, "customer_email")
	}
	if b.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if b.ReferenceNumber == "" {
		missing = append(missing, "reference_number")
	}
	if e.Title == "" {
		missing = append(missing, "event_title")
	}
	if e.StartsAt.IsZero() {
		missing = append(missing, "event_date")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
