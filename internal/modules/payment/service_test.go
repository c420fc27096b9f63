package payment

import (
	"context"
	"io"
	"testing"

	"artclub/internal/domain"
	"artclub/internal/provider/stripe"
	"artclub/internal/queue"
	"artclub/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock stores
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

func (m *MockBookingStore) UpdateStatus(ctx context.Context, id string, expectedCurrent, next domain.BookingStatus) (bool, error) {
	args := m.Called(ctx, id, expectedCurrent, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) SetPaymentIntentID(ctx context.Context, id, intentID string) error {
	args := m.Called(ctx, id, intentID)
	return args.Error(0)
}

type MockPaymentStore struct {
	mock.Mock
}

func (m *MockPaymentStore) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentStore) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentStore) FindCurrentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentStore) UpdateStatusByIntentID(ctx context.Context, intentID string, status domain.PaymentStatus, latestChargeID, errorMessage string) error {
	args := m.Called(ctx, intentID, status, latestChargeID, errorMessage)
	return args.Error(0)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateIntent(ctx context.Context, params stripe.CreateIntentParams) (*stripe.Intent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Intent), args.Error(1)
}

func (m *MockProvider) GetIntent(ctx context.Context, id string) (*stripe.Intent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Intent), args.Error(1)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:              "bk-1",
		EventID:         "ev-1",
		CustomerName:    "Nimal Perera",
		CustomerEmail:   "nimal@example.com",
		TicketsCount:    2,
		TotalPrice:      600,
		ReferenceNumber: "CEL-TEST1",
		Status:          domain.BookingPending,
	}
}

func newTestService(bookings *MockBookingStore, payments *MockPaymentStore, provider *MockProvider, publisher *MockEnqueuer) *Service {
	return NewService(ServiceProperty{
		Bookings:  bookings,
		Payments:  payments,
		Provider:  provider,
		Publisher: publisher,
		Logger:    testLogger(),
		Currency:  "lkr",
	})
}

func TestService_CreateSession_Success(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)
	publisher := new(MockEnqueuer)

	bookings.On("GetByID", mock.Anything, "bk-1").Return(pendingBooking(), nil)
	payments.On("FindCurrentByBookingID", mock.Anything, "bk-1").Return(nil, repository.ErrNotFound)
	provider.On("CreateIntent", mock.Anything, mock.MatchedBy(func(p stripe.CreateIntentParams) bool {
		return p.AmountMinorUnits == 60000 &&
			p.Currency == "lkr" &&
			p.Metadata["booking_id"] == "bk-1"
	})).Return(&stripe.Intent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Status:       "requires_payment_method",
	}, nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	bookings.On("SetPaymentIntentID", mock.Anything, "bk-1", "pi_123").Return(nil)

	service := newTestService(bookings, payments, provider, publisher)

	handle, err := service.CreateSession(context.Background(), CreateSessionRequest{
		BookingID: "bk-1",
		Amount:    600,
	})

	assert.NoError(t, err)
	assert.Equal(t, "pi_123", handle.PaymentIntentID)
	assert.Equal(t, "pi_123_secret", handle.ClientSecret)
	payments.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateSession_AmountMismatch(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	bookings.On("GetByID", mock.Anything, "bk-1").Return(pendingBooking(), nil)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	_, err := service.CreateSession(context.Background(), CreateSessionRequest{
		BookingID: "bk-1",
		Amount:    500, // stored total is 600
	})

	assert.ErrorIs(t, err, ErrAmountMismatch)
	provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestService_CreateSession_ToleratesRoundingNoise(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	bookings.On("GetByID", mock.Anything, "bk-1").Return(pendingBooking(), nil)
	payments.On("FindCurrentByBookingID", mock.Anything, "bk-1").Return(nil, repository.ErrNotFound)
	provider.On("CreateIntent", mock.Anything, mock.Anything).Return(&stripe.Intent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Status:       "requires_payment_method",
	}, nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	bookings.On("SetPaymentIntentID", mock.Anything, "bk-1", "pi_123").Return(nil)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	_, err := service.CreateSession(context.Background(), CreateSessionRequest{
		BookingID: "bk-1",
		Amount:    600.005,
	})

	assert.NoError(t, err)
}

func TestService_CreateSession_AmountBelowMinimum(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	b := pendingBooking()
	b.TotalPrice = 20 // below LKR 50.00 minimum
	bookings.On("GetByID", mock.Anything, "bk-1").Return(b, nil)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	_, err := service.CreateSession(context.Background(), CreateSessionRequest{
		BookingID: "bk-1",
		Amount:    20,
	})

	assert.ErrorIs(t, err, ErrAmountOutOfRange)
	provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestService_CreateSession_InvalidCurrency(t *testing.T) {
	bookings := new(MockBookingStore)
	bookings.On("GetByID", mock.Anything, "bk-1").Return(pendingBooking(), nil)

	service := newTestService(bookings, new(MockPaymentStore), new(MockProvider), new(MockEnqueuer))

	_, err := service.CreateSession(context.Background(), CreateSessionRequest{
		BookingID: "bk-1",
		Amount:    600,
		Currency:  "RUPEES",
	})

	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestService_CreateSession_ReusesOpenSession(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	bookings.On("GetByID", mock.Anything, "bk-1").Return(pendingBooking(), nil)
	payments.On("FindCurrentByBookingID", mock.Anything, "bk-1").Return(&domain.Payment{
		ID:               "pay-1",
		BookingID:        "bk-1",
		ProviderIntentID: "pi_existing",
		ClientSecret:     "pi_existing_secret",
		Status:           domain.PaymentRequiresPaymentMethod,
	}, nil)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	handle, err := service.CreateSession(context.Background(), CreateSessionRequest{
		BookingID: "bk-1",
		Amount:    600,
	})

	assert.NoError(t, err)
	assert.Equal(t, "pi_existing", handle.PaymentIntentID)
	assert.Equal(t, "pi_existing_secret", handle.ClientSecret)
	provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateSession_BookingAlreadyConfirmed(t *testing.T) {
	bookings := new(MockBookingStore)

	b := pendingBooking()
	b.Status = domain.BookingConfirmed
	bookings.On("GetByID", mock.Anything, "bk-1").Return(b, nil)

	service := newTestService(bookings, new(MockPaymentStore), new(MockProvider), new(MockEnqueuer))

	_, err := service.CreateSession(context.Background(), CreateSessionRequest{
		BookingID: "bk-1",
		Amount:    600,
	})

	assert.ErrorIs(t, err, ErrBookingNotPayable)
}

func TestService_CreateSession_BookingNotFound(t *testing.T) {
	bookings := new(MockBookingStore)
	bookings.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	service := newTestService(bookings, new(MockPaymentStore), new(MockProvider), new(MockEnqueuer))

	_, err := service.CreateSession(context.Background(), CreateSessionRequest{
		BookingID: "missing",
		Amount:    600,
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}
