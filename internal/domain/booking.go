package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type PackageType string

const (
	PackageMovie           PackageType = "movie"
	PackageMoviePhotobooth PackageType = "movie_photobooth"
)

func (p PackageType) Valid() bool {
	return p == PackageMovie || p == PackageMoviePhotobooth
}

// UnitPrice returns the per-ticket price of the package for an event.
func (p PackageType) UnitPrice(e *Event) float64 {
	if p == PackageMoviePhotobooth {
		return e.Price + e.PhotoboothPrice
	}
	return e.Price
}

type Booking struct {
	ID              string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	EventID         string        `json:"event_id" gorm:"type:varchar(36);index;not null"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone"`
	StudentID       string        `json:"student_id"`
	PackageType     PackageType   `json:"package_type" gorm:"type:varchar(32)"`
	TicketsCount    int           `json:"tickets_count"`
	TotalPrice      float64       `json:"total_price"`
	ReferenceNumber string        `json:"reference_number" gorm:"type:varchar(32);uniqueIndex;not null"`
	Status          BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentIntentID *string       `json:"payment_intent_id,omitempty" gorm:"type:varchar(64)"`
	EmailSent       bool          `json:"email_sent"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
}

func (Booking) TableName() string { return "bookings" }
