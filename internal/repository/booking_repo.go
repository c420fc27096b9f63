package repository

import (
	"context"
	"errors"
	"time"

	"artclub/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	EventID         string     `gorm:"column:event_id"`
	CustomerName    string     `gorm:"column:customer_name"`
	CustomerEmail   string     `gorm:"column:customer_email"`
	CustomerPhone   string     `gorm:"column:customer_phone"`
	StudentID       string     `gorm:"column:student_id"`
	PackageType     string     `gorm:"column:package_type"`
	TicketsCount    int        `gorm:"column:tickets_count"`
	TotalPrice      float64    `gorm:"column:total_price"`
	ReferenceNumber string     `gorm:"column:reference_number"`
	Status          string     `gorm:"column:status"`
	PaymentIntentID *string    `gorm:"column:payment_intent_id"`
	EmailSent       bool       `gorm:"column:email_sent"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:              m.ID,
		EventID:         m.EventID,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		CustomerPhone:   m.CustomerPhone,
		StudentID:       m.StudentID,
		PackageType:     domain.PackageType(m.PackageType),
		TicketsCount:    m.TicketsCount,
		TotalPrice:      m.TotalPrice,
		ReferenceNumber: m.ReferenceNumber,
		Status:          domain.BookingStatus(m.Status),
		PaymentIntentID: m.PaymentIntentID,
		EmailSent:       m.EmailSent,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
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
		PaymentIntentID: b.PaymentIntentID,
		EmailSent:       b.EmailSent,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(tx.Error, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReference
		}
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReference
		}
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// UpdateStatus transitions a booking's status only when the stored status
// still matches expectedCurrent. Returns false when the row has already
// transitioned, which callers must treat as "re-read and reconcile", not as
// an error. This conditional write is the serialization point for duplicate
// confirmation calls.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, expectedCurrent, next domain.BookingStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(expectedCurrent)).
		Updates(map[string]interface{}{
			"status":     string(next),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingRepository) SetPaymentIntentID(ctx context.Context, id, intentID string) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_intent_id": intentID,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// SetEmailSent flips the email_sent flag. Repeated sends (admin resend)
// overwrite it idempotently.
func (r *BookingRepository) SetEmailSent(ctx context.Context, id string, sent bool) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email_sent": sent,
			"updated_at": time.Now().UTC(),
		}).Error
}

type BookingFilters struct {
	EventID string
	Status  string
	Limit   int
	Offset  int
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilters) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{}).Order("created_at DESC")
	if f.EventID != "" {
		q = q.Where("event_id = ?", f.EventID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var ms []bookingModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// CountByEvent counts non-cancelled bookings' tickets for capacity checks.
func (r *BookingRepository) CountTicketsByEvent(ctx context.Context, eventID string) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("event_id = ? AND status <> ?", eventID, string(domain.BookingCancelled)).
		Select("COALESCE(SUM(tickets_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
