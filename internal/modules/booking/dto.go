package booking

import "artclub/internal/domain"

type CreateBookingRequest struct {
	EventID      string `json:"event_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
	PackageType  string `json:"package_type" validate:"omitempty,oneof=movie movie_photobooth"`
	TicketsCount int    `json:"tickets_count" validate:"required"`
}

type BookingResponse struct {
	ID              string  `json:"id"`
	EventID         string  `json:"event_id"`
	ReferenceNumber string  `json:"reference_number"`
	Status          string  `json:"status"`
	TicketsCount    int     `json:"tickets_count"`
	TotalPrice      float64 `json:"total_price"`
	EmailSent       bool    `json:"email_sent"`
}

func toResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		EventID:         b.EventID,
		ReferenceNumber: b.ReferenceNumber,
		Status:          string(b.Status),
		TicketsCount:    b.TicketsCount,
		TotalPrice:      b.TotalPrice,
		EmailSent:       b.EmailSent,
	}
}
