package domain

import "time"

// PaymentStatus mirrors the provider's payment-intent status vocabulary.
type PaymentStatus string

const (
	PaymentRequiresPaymentMethod PaymentStatus = "requires_payment_method"
	PaymentRequiresAction        PaymentStatus = "requires_action"
	PaymentProcessing            PaymentStatus = "processing"
	PaymentSucceeded             PaymentStatus = "succeeded"
	PaymentCanceled              PaymentStatus = "canceled"
)

// Terminal reports whether no further provider-side transition is possible.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSucceeded || s == PaymentCanceled
}

type Payment struct {
	ID               string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	BookingID        string        `json:"booking_id" gorm:"type:varchar(36);index;not null"`
	ProviderIntentID string        `json:"provider_intent_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	ClientSecret     string        `json:"-" gorm:"type:text"`
	Amount           float64       `json:"amount"`
	Currency         string        `json:"currency" gorm:"type:varchar(3)"`
	Status           PaymentStatus `json:"status" gorm:"type:varchar(32);index"`
	LatestChargeID   string        `json:"latest_charge_id,omitempty" gorm:"type:varchar(64)"`
	ErrorMessage     string        `json:"error_message,omitempty" gorm:"type:text"`
	Metadata         string        `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
