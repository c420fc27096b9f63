package catalog

import (
	"time"

	"artclub/internal/domain"
)

type EventResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	PhotoboothPrice float64   `json:"photobooth_price"`
	Capacity        int       `json:"capacity"`
	StartsAt        time.Time `json:"starts_at"`
	Venue           string    `json:"venue"`
	ImageURL        string    `json:"image_url"`
	Active          bool      `json:"active"`
}

type EventDetailResponse struct {
	EventResponse
	TicketsSold      int `json:"tickets_sold"`
	TicketsRemaining int `json:"tickets_remaining"`
}

func toResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Price:           e.Price,
		PhotoboothPrice: e.PhotoboothPrice,
		Capacity:        e.Capacity,
		StartsAt:        e.StartsAt,
		Venue:           e.Venue,
		ImageURL:        e.ImageURL,
		Active:          e.Active,
	}
}
