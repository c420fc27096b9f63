package payment

import (
	"context"
	"testing"

	"artclub/internal/domain"
	"artclub/internal/provider/stripe"
	"artclub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func storedPayment() *domain.Payment {
	return &domain.Payment{
		ID:               "pay-1",
		BookingID:        "bk-1",
		ProviderIntentID: "pi_123",
		ClientSecret:     "pi_123_secret",
		Amount:           600,
		Currency:         "lkr",
		Status:           domain.PaymentProcessing,
	}
}

func succeededIntent() *stripe.Intent {
	return &stripe.Intent{
		ID:           "pi_123",
		Status:       "succeeded",
		LatestCharge: "ch_1",
		Metadata:     map[string]string{"booking_id": "bk-1"},
	}
}

func TestConfirmPayment_SucceededConfirmsBookingOnce(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)
	publisher := new(MockEnqueuer)

	payments.On("GetByIntentID", mock.Anything, "pi_123").Return(storedPayment(), nil)
	provider.On("GetIntent", mock.Anything, "pi_123").Return(succeededIntent(), nil)
	payments.On("UpdateStatusByIntentID", mock.Anything, "pi_123", domain.PaymentSucceeded, "ch_1", "").Return(nil)
	bookings.On("UpdateStatus", mock.Anything, "bk-1", domain.BookingPending, domain.BookingConfirmed).Return(true, nil)

	confirmed := pendingBooking()
	confirmed.Status = domain.BookingConfirmed
	bookings.On("GetByID", mock.Anything, "bk-1").Return(confirmed, nil)
	publisher.On("PublishBookingConfirmed", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(bookings, payments, provider, publisher)

	result, err := service.ConfirmPayment(context.Background(), "pi_123", "bk-1")

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "confirmed", result.Status)
	publisher.AssertNumberOfCalls(t, "PublishBookingConfirmed", 1)
}

func TestConfirmPayment_DuplicateCallIsIdempotent(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)
	publisher := new(MockEnqueuer)

	payments.On("GetByIntentID", mock.Anything, "pi_123").Return(storedPayment(), nil)
	provider.On("GetIntent", mock.Anything, "pi_123").Return(succeededIntent(), nil)
	payments.On("UpdateStatusByIntentID", mock.Anything, "pi_123", domain.PaymentSucceeded, "ch_1", "").Return(nil)

	// Conditional write loses: another call already confirmed the booking.
	bookings.On("UpdateStatus", mock.Anything, "bk-1", domain.BookingPending, domain.BookingConfirmed).Return(false, nil)
	confirmed := pendingBooking()
	confirmed.Status = domain.BookingConfirmed
	bookings.On("GetByID", mock.Anything, "bk-1").Return(confirmed, nil)

	service := newTestService(bookings, payments, provider, publisher)

	result, err := service.ConfirmPayment(context.Background(), "pi_123", "bk-1")

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "confirmed", result.Status)
	// The losing call must not enqueue a second notification.
	publisher.AssertNotCalled(t, "PublishBookingConfirmed", mock.Anything, mock.Anything)
}

func TestConfirmPayment_BookingIDMismatch(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	payments.On("GetByIntentID", mock.Anything, "pi_123").Return(storedPayment(), nil)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	_, err := service.ConfirmPayment(context.Background(), "pi_123", "bk-other")

	assert.ErrorIs(t, err, ErrIdentityMismatch)
	provider.AssertNotCalled(t, "GetIntent", mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_MetadataMismatch(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	payments.On("GetByIntentID", mock.Anything, "pi_123").Return(storedPayment(), nil)

	intent := succeededIntent()
	intent.Metadata["booking_id"] = "bk-other"
	provider.On("GetIntent", mock.Anything, "pi_123").Return(intent, nil)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	_, err := service.ConfirmPayment(context.Background(), "pi_123", "bk-1")

	assert.ErrorIs(t, err, ErrIdentityMismatch)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_RequiresPaymentMethodKeepsBookingPending(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	payments.On("GetByIntentID", mock.Anything, "pi_123").Return(storedPayment(), nil)

	intent := succeededIntent()
	intent.Status = "requires_payment_method"
	intent.LastPaymentError = &struct {
		Message string `json:"message"`
	}{Message: "Your card was declined."}
	provider.On("GetIntent", mock.Anything, "pi_123").Return(intent, nil)
	payments.On("UpdateStatusByIntentID", mock.Anything, "pi_123", domain.PaymentRequiresPaymentMethod, "", "Your card was declined.").Return(nil)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	result, err := service.ConfirmPayment(context.Background(), "pi_123", "bk-1")

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "requires_payment_method", result.Status)
	assert.Equal(t, "Your card was declined.", result.Message)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_CanceledCancelsBooking(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)
	publisher := new(MockEnqueuer)

	payments.On("GetByIntentID", mock.Anything, "pi_123").Return(storedPayment(), nil)

	intent := succeededIntent()
	intent.Status = "canceled"
	provider.On("GetIntent", mock.Anything, "pi_123").Return(intent, nil)
	payments.On("UpdateStatusByIntentID", mock.Anything, "pi_123", domain.PaymentCanceled, "", "").Return(nil)
	bookings.On("UpdateStatus", mock.Anything, "bk-1", domain.BookingPending, domain.BookingCancelled).Return(true, nil)

	service := newTestService(bookings, payments, provider, publisher)

	result, err := service.ConfirmPayment(context.Background(), "pi_123", "bk-1")

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "canceled", result.Status)
	// Cancellation never notifies.
	publisher.AssertNotCalled(t, "PublishBookingConfirmed", mock.Anything, mock.Anything)
}

func TestConfirmPayment_ProcessingIsNoOp(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	payments.On("GetByIntentID", mock.Anything, "pi_123").Return(storedPayment(), nil)

	intent := succeededIntent()
	intent.Status = "processing"
	provider.On("GetIntent", mock.Anything, "pi_123").Return(intent, nil)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	result, err := service.ConfirmPayment(context.Background(), "pi_123", "bk-1")

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "processing", result.Status)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "UpdateStatusByIntentID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_ProviderUnreachableLeavesStateUntouched(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	payments.On("GetByIntentID", mock.Anything, "pi_123").Return(storedPayment(), nil)
	provider.On("GetIntent", mock.Anything, "pi_123").Return(nil, stripe.ErrUnavailable)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	_, err := service.ConfirmPayment(context.Background(), "pi_123", "bk-1")

	assert.ErrorIs(t, err, stripe.ErrUnavailable)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "UpdateStatusByIntentID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_UnknownIntent(t *testing.T) {
	payments := new(MockPaymentStore)
	payments.On("GetByIntentID", mock.Anything, "pi_missing").Return(nil, repository.ErrNotFound)

	service := newTestService(new(MockBookingStore), payments, new(MockProvider), new(MockEnqueuer))

	_, err := service.ConfirmPayment(context.Background(), "pi_missing", "bk-1")

	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestConfirmPayment_NotPayableWhenBookingCancelled(t *testing.T) {
	bookings := new(MockBookingStore)
	payments := new(MockPaymentStore)
	provider := new(MockProvider)

	payments.On("GetByIntentID", mock.Anything, "pi_123").Return(storedPayment(), nil)
	provider.On("GetIntent", mock.Anything, "pi_123").Return(succeededIntent(), nil)
	payments.On("UpdateStatusByIntentID", mock.Anything, "pi_123", domain.PaymentSucceeded, "ch_1", "").Return(nil)
	bookings.On("UpdateStatus", mock.Anything, "bk-1", domain.BookingPending, domain.BookingConfirmed).Return(false, nil)

	cancelled := pendingBooking()
	cancelled.Status = domain.BookingCancelled
	bookings.On("GetByID", mock.Anything, "bk-1").Return(cancelled, nil)

	service := newTestService(bookings, payments, provider, new(MockEnqueuer))

	_, err := service.ConfirmPayment(context.Background(), "pi_123", "bk-1")

	assert.ErrorIs(t, err, ErrBookingNotPayable)
}
