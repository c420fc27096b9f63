package domain

import "time"

type Event struct {
	ID              string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description,omitempty" gorm:"type:text"`
	Price           float64   `json:"price" validate:"required,gt=0"`
	PhotoboothPrice float64   `json:"photobooth_price"`
	Capacity        int       `json:"capacity" validate:"required,gt=0"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	Venue           string    `json:"venue"`
	ImageURL        string    `json:"image_url,omitempty" gorm:"type:text"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Event) TableName() string { return "events" }
