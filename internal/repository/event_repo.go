package repository

import (
	"context"
	"errors"
	"time"

	"artclub/internal/domain"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

type eventModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	Title           string    `gorm:"column:title"`
	Description     string    `gorm:"column:description"`
	Price           float64   `gorm:"column:price"`
	PhotoboothPrice float64   `gorm:"column:photobooth_price"`
	Capacity        int       `gorm:"column:capacity"`
	StartsAt        time.Time `gorm:"column:starts_at"`
	Venue           string    `gorm:"column:venue"`
	ImageURL        string    `gorm:"column:image_url"`
	Active          bool      `gorm:"column:active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (eventModel) TableName() string { return "events" }

func toDomainEvent(m eventModel) *domain.Event {
	return &domain.Event{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Price:           m.Price,
		PhotoboothPrice: m.PhotoboothPrice,
		Capacity:        m.Capacity,
		StartsAt:        m.StartsAt,
		Venue:           m.Venue,
		ImageURL:        m.ImageURL,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toEventModel(e *domain.Event) eventModel {
	return eventModel{
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
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	m := toEventModel(e)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*e = *toDomainEvent(m)
	return nil
}

func (r *EventRepository) Update(ctx context.Context, e *domain.Event) error {
	m := toEventModel(e)
	m.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&eventModel{}).Where("id = ?", m.ID).Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var m eventModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainEvent(m), nil
}

func (r *EventRepository) List(ctx context.Context, activeOnly bool) ([]domain.Event, error) {
	q := r.db.WithContext(ctx).Model(&eventModel{}).Order("starts_at ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var ms []eventModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainEvent(m))
	}
	return out, nil
}

func (r *EventRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&eventModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     active,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
