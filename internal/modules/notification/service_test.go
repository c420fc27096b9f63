package notification

import (
	"context"
	"io"
	"testing"
	"time"

	"artclub/internal/domain"
	"artclub/internal/provider/email"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) SetEmailSent(ctx context.Context, id string, sent bool) error {
	args := m.Called(ctx, id, sent)
	return args.Error(0)
}

type MockEventReader struct {
	mock.Mock
}

func (m *MockEventReader) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

// flakySender fails a fixed number of times before succeeding.
type flakySender struct {
	failures int
	calls    int
	err      error
}

func (s *flakySender) Send(ctx context.Context, msg email.Message) (email.Result, error) {
	s.calls++
	if s.calls <= s.failures {
		return email.Result{}, s.err
	}
	return email.Result{Success: true, MessageID: "msg-1"}, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:              "bk-1",
		EventID:         "ev-1",
		CustomerName:    "Nimal Perera",
		CustomerEmail:   "nimal@example.com",
		PackageType:     domain.PackageMovie,
		TicketsCount:    2,
		TotalPrice:      600,
		ReferenceNumber: "CEL-TEST1",
		Status:          domain.BookingConfirmed,
	}
}

func bookedEvent() *domain.Event {
	return &domain.Event{
		ID:       "ev-1",
		Title:    "Movie Night",
		Price:    300,
		StartsAt: time.Date(2026, 12, 1, 18, 0, 0, 0, time.UTC),
		Venue:    "Open-Air Theatre",
	}
}

func TestSendBookingConfirmation_RecoversWithinAttemptBudget(t *testing.T) {
	bookings := new(MockBookingStore)
	events := new(MockEventReader)

	bookings.On("GetByID", mock.Anything, "bk-1").Return(confirmedBooking(), nil)
	events.On("GetByID", mock.Anything, "ev-1").Return(bookedEvent(), nil)
	bookings.On("SetEmailSent", mock.Anything, "bk-1", true).Return(nil)

	sender := &flakySender{failures: 2, err: &email.SendError{StatusCode: 503, Message: "upstream busy"}}
	service := NewService(bookings, events, sender, testLogger(), 3, time.Millisecond)

	err := service.SendBookingConfirmation(context.Background(), "bk-1")

	assert.NoError(t, err)
	assert.Equal(t, 3, sender.calls)
	bookings.AssertCalled(t, "SetEmailSent", mock.Anything, "bk-1", true)
}

func TestSendBookingConfirmation_ExhaustionDoesNotTouchBooking(t *testing.T) {
	bookings := new(MockBookingStore)
	events := new(MockEventReader)

	bookings.On("GetByID", mock.Anything, "bk-1").Return(confirmedBooking(), nil)
	events.On("GetByID", mock.Anything, "ev-1").Return(bookedEvent(), nil)

	sender := &flakySender{failures: 10, err: &email.SendError{StatusCode: 500, Message: "down"}}
	service := NewService(bookings, events, sender, testLogger(), 3, time.Millisecond)

	err := service.SendBookingConfirmation(context.Background(), "bk-1")

	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Equal(t, 3, sender.calls)
	bookings.AssertNotCalled(t, "SetEmailSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendBookingConfirmation_PermanentRejectionNotRetried(t *testing.T) {
	bookings := new(MockBookingStore)
	events := new(MockEventReader)

	bookings.On("GetByID", mock.Anything, "bk-1").Return(confirmedBooking(), nil)
	events.On("GetByID", mock.Anything, "ev-1").Return(bookedEvent(), nil)

	sender := &flakySender{failures: 10, err: &email.SendError{StatusCode: 400, Message: "bad recipient"}}
	service := NewService(bookings, events, sender, testLogger(), 3, time.Millisecond)

	err := service.SendBookingConfirmation(context.Background(), "bk-1")

	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Equal(t, 1, sender.calls)
}

func TestSendBookingConfirmation_MissingRecipientIsFatal(t *testing.T) {
	bookings := new(MockBookingStore)
	events := new(MockEventReader)

	b := confirmedBooking()
	b.CustomerEmail = ""
	bookings.On("GetByID", mock.Anything, "bk-1").Return(b, nil)
	events.On("GetByID", mock.Anything, "ev-1").Return(bookedEvent(), nil)

	sender := &flakySender{}
	service := NewService(bookings, events, sender, testLogger(), 3, time.Millisecond)

	err := service.SendBookingConfirmation(context.Background(), "bk-1")

	var missing *MissingFieldsError
	assert.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Fields, "customer_email")
	assert.Equal(t, 0, sender.calls)
	bookings.AssertNotCalled(t, "SetEmailSent", mock.Anything, mock.Anything, mock.Anything)
}
