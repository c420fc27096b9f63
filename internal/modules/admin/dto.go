package admin

import (
	"time"

	"artclub/internal/domain"
)

type BookingRow struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	StudentID       string    `json:"student_id"`
	PackageType     string    `json:"package_type"`
	TicketsCount    int       `json:"tickets_count"`
	TotalPrice      float64   `json:"total_price"`
	ReferenceNumber string    `json:"reference_number"`
	Status          string    `json:"status"`
	EmailSent       bool      `json:"email_sent"`
	CreatedAt       time.Time `json:"created_at"`

	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	PaymentStatus   string `json:"payment_status,omitempty"`
}

type ListBookingsQuery struct {
	EventID string `form:"event_id"`
	Status  string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	Limit   int    `form:"limit" binding:"omitempty,gte=1,lte=200"`
	Offset  int    `form:"offset" binding:"omitempty,gte=0"`
}

type OverrideStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

type EventRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	Price           float64   `json:"price" validate:"required,gt=0"`
	PhotoboothPrice float64   `json:"photobooth_price" validate:"gte=0"`
	Capacity        int       `json:"capacity" validate:"required,gt=0"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	Venue           string    `json:"venue" validate:"required"`
	ImageURL        string    `json:"image_url"`
}

func toBookingRow(b *domain.Booking, p *domain.Payment) BookingRow {
	row := BookingRow{
		ID:              b.ID,
		EventID:         b.EventID,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		StudentID:       b.StudentID,
		PackageType:     string(b.PackageType),
		TicketsCount:    b.TicketsCount,
		TotalPrice:      b.TotalPrice,
		ReferenceNumber: b.ReferenceNumber,
		Status:          string(b.Status),
		EmailSent:       b.EmailSent,
		CreatedAt:       b.CreatedAt,
	}
	if p != nil {
		row.PaymentIntentID = p.ProviderIntentID
		row.PaymentStatus = string(p.Status)
	}
	return row
}
