package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artclub/internal/domain"
	"artclub/internal/queue"
	"artclub/internal/repository"

	"github.com/sirupsen/logrus"
)

// ConfirmPayment reconciles the provider-reported outcome of a payment intent
// with the stored booking.
//
// The provider is the single source of truth for intent status; the local
// payment row is only trusted for the booking linkage, and that linkage is
// re-validated on every call. The booking transition is a conditional write
// out of pending, so a racing duplicate call observes the applied state and
// returns the same result instead of double-writing or double-notifying.
func (s *Service) ConfirmPayment(ctx context.Context, intentID, bookingID string) (*ReconciliationResult, error) {
	p, err := s.payments.GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.BookingID != bookingID {
		s.logger.WithFields(logrus.Fields{
			"intent_id":  intentID,
			"booking_id": bookingID,
			"stored":     p.BookingID,
		}).Error("payment/booking identity mismatch")
		return nil, ErrIdentityMismatch
	}

	// Authoritative status fetch. A transport failure here means "status
	// unknown": propagate without touching the booking so the caller re-polls.
	intent, err := s.provider.GetIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent.Metadata["booking_id"] != bookingID {
		s.logger.WithFields(logrus.Fields{
			"intent_id":  intentID,
			"booking_id": bookingID,
			"metadata":   intent.Metadata["booking_id"],
		}).Error("intent metadata identity mismatch")
		return nil, ErrIdentityMismatch
	}

	switch domain.PaymentStatus(intent.Status) {
	case domain.PaymentSucceeded:
		return s.applyConfirmed(ctx, intent.LatestCharge, intentID, bookingID)

	case domain.PaymentRequiresPaymentMethod:
		// Declined or abandoned attempt. The booking stays pending; the user
		// may retry with another payment method on the same intent.
		msg := "Payment requires a new payment method"
		if intent.LastPaymentError != nil && intent.LastPaymentError.Message != "" {
			msg = intent.LastPaymentError.Message
		}
		if err := s.payments.UpdateStatusByIntentID(ctx, intentID, domain.PaymentRequiresPaymentMethod, "", msg); err != nil {
			return nil, err
		}
		return &ReconciliationResult{Success: false, Status: "requires_payment_method", Message: msg}, nil

	case domain.PaymentCanceled:
		return s.applyCanceled(ctx, intentID, bookingID)

	default:
		// processing / requires_action: nothing to apply yet, re-poll after
		// the user's next provider-UI interaction.
		return &ReconciliationResult{
			Success: false,
			Status:  intent.Status,
			Message: fmt.Sprintf("Payment status: %s", intent.Status),
		}, nil
	}
}

func (s *Service) applyConfirmed(ctx context.Context, latestCharge, intentID, bookingID string) (*ReconciliationResult, error) {
	if err := s.payments.UpdateStatusByIntentID(ctx, intentID, domain.PaymentSucceeded, latestCharge, ""); err != nil {
		return nil, err
	}

	applied, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingPending, domain.BookingConfirmed)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !applied {
		// Lost the compare-and-set: someone already moved the booking out of
		// pending. A matching terminal state is the idempotent success path.
		if b.Status == domain.BookingConfirmed {
			return &ReconciliationResult{Success: true, Status: "confirmed", Message: "Payment confirmed successfully"}, nil
		}
		return nil, ErrBookingNotPayable
	}

	// Enqueue strictly after the committed transition. Failure to enqueue is
	// logged, never propagated: the booking is confirmed regardless.
	ev := queue.BookingConfirmedEvent{
		BookingID:       b.ID,
		PaymentIntentID: intentID,
		ReferenceNumber: b.ReferenceNumber,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		s.logger.WithError(err).WithField("booking_id", b.ID).Error("failed to enqueue confirmation notification")
	}

	if s.feed != nil {
		s.feed.Publish("booking.confirmed", b)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"intent_id":  intentID,
	}).Info("booking confirmed")

	return &ReconciliationResult{Success: true, Status: "confirmed", Message: "Payment confirmed successfully"}, nil
}

func (s *Service) applyCanceled(ctx context.Context, intentID, bookingID string) (*ReconciliationResult, error) {
	if err := s.payments.UpdateStatusByIntentID(ctx, intentID, domain.PaymentCanceled, "", ""); err != nil {
		return nil, err
	}

	applied, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingPending, domain.BookingCancelled)
	if err != nil {
		return nil, err
	}
	if applied && s.feed != nil {
		if b, err := s.bookings.GetByID(ctx, bookingID); err == nil {
			s.feed.Publish("booking.cancelled", b)
		}
	}

	return &ReconciliationResult{Success: false, Status: "canceled", Message: "Payment was canceled"}, nil
}
