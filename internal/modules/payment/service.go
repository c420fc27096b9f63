package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"artclub/internal/domain"
	"artclub/internal/provider/stripe"
	"artclub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Transactable bounds in currency minor units: LKR 50.00 .. 1,000,000.00.
const (
	minAmountMinorUnits int64 = 5_000
	maxAmountMinorUnits int64 = 100_000_000
)

const amountTolerance = 0.01

var currencyPattern = regexp.MustCompile(`^[a-z]{3}$`)

type Service struct {
	bookings  BookingStore
	payments  PaymentStore
	provider  stripe.Client
	publisher ConfirmationEnqueuer
	feed      LifecycleFeed
	logger    *logrus.Logger
	currency  string
}

type ServiceProperty struct {
	Bookings  BookingStore
	Payments  PaymentStore
	Provider  stripe.Client
	Publisher ConfirmationEnqueuer
	Feed      LifecycleFeed
	Logger    *logrus.Logger
	Currency  string
}

func NewService(props ServiceProperty) *Service {
	return &Service{
		bookings:  props.Bookings,
		payments:  props.Payments,
		provider:  props.Provider,
		publisher: props.Publisher,
		feed:      props.Feed,
		logger:    props.Logger,
		currency:  props.Currency,
	}
}

// CreateSession opens a payment intent with the provider sized to the
// booking's stored total. Session creation is keyed by booking id: a stored
// non-terminal payment is reused, so a page refresh cannot mint divergent
// payment records for one booking.
func (s *Service) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionHandle, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, ErrBookingNotPayable
	}

	// The caller-supplied amount is cross-checked, never trusted. The stored
	// total is what gets charged.
	if math.Abs(req.Amount-b.TotalPrice) > amountTolerance {
		return nil, ErrAmountMismatch
	}

	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}
	if !currencyPattern.MatchString(currency) {
		return nil, ErrInvalidCurrency
	}

	minor := int64(math.Round(b.TotalPrice * 100))
	if minor < minAmountMinorUnits || minor > maxAmountMinorUnits {
		return nil, ErrAmountOutOfRange
	}

	// A terminal (canceled) payment is left behind and a fresh intent opened;
	// anything non-terminal is still usable by the provider UI.
	if existing, err := s.payments.FindCurrentByBookingID(ctx, b.ID); err == nil {
		if !existing.Status.Terminal() {
			s.logger.WithFields(logrus.Fields{
				"booking_id": b.ID,
				"intent_id":  existing.ProviderIntentID,
			}).Info("reusing open payment session")
			return &SessionHandle{
				ClientSecret:    existing.ClientSecret,
				PaymentIntentID: existing.ProviderIntentID,
				Status:          string(existing.Status),
			}, nil
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	metadata := map[string]string{
		"booking_id":       b.ID,
		"event_id":         b.EventID,
		"reference_number": b.ReferenceNumber,
		"customer_email":   b.CustomerEmail,
		"customer_name":    b.CustomerName,
	}

	intent, err := s.provider.CreateIntent(ctx, stripe.CreateIntentParams{
		AmountMinorUnits: minor,
		Currency:         currency,
		Description:      fmt.Sprintf("Booking %s", b.ReferenceNumber),
		ReceiptEmail:     b.CustomerEmail,
		Metadata:         metadata,
	})
	if err != nil {
		return nil, err
	}

	metaBuff, _ := json.Marshal(metadata)
	now := time.Now().UTC()
	p := &domain.Payment{
		ID:               uuid.NewString(),
		BookingID:        b.ID,
		ProviderIntentID: intent.ID,
		ClientSecret:     intent.ClientSecret,
		Amount:           b.TotalPrice,
		Currency:         currency,
		Status:           domain.PaymentStatus(intent.Status),
		Metadata:         string(metaBuff),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.bookings.SetPaymentIntentID(ctx, b.ID, intent.ID); err != nil {
		s.logger.WithError(err).WithField("booking_id", b.ID).Error("failed to link payment intent to booking")
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"intent_id":  intent.ID,
		"amount":     b.TotalPrice,
		"currency":   currency,
	}).Info("payment session created")

	return &SessionHandle{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Status:          intent.Status,
	}, nil
}
