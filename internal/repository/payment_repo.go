package repository

import (
	"context"
	"errors"
	"time"

	"artclub/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	BookingID        string    `gorm:"column:booking_id"`
	ProviderIntentID string    `gorm:"column:provider_intent_id"`
	ClientSecret     string    `gorm:"column:client_secret"`
	Amount           float64   `gorm:"column:amount"`
	Currency         string    `gorm:"column:currency"`
	Status           string    `gorm:"column:status"`
	LatestChargeID   string    `gorm:"column:latest_charge_id"`
	ErrorMessage     string    `gorm:"column:error_message"`
	Metadata         string    `gorm:"column:metadata"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) *domain.Payment {
	return &domain.Payment{
		ID:               m.ID,
		BookingID:        m.BookingID,
		ProviderIntentID: m.ProviderIntentID,
		ClientSecret:     m.ClientSecret,
		Amount:           m.Amount,
		Currency:         m.Currency,
		Status:           domain.PaymentStatus(m.Status),
		LatestChargeID:   m.LatestChargeID,
		ErrorMessage:     m.ErrorMessage,
		Metadata:         m.Metadata,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toPaymentModel(p *domain.Payment) paymentModel {
	return paymentModel{
		ID:               p.ID,
		BookingID:        p.BookingID,
		ProviderIntentID: p.ProviderIntentID,
		ClientSecret:     p.ClientSecret,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           string(p.Status),
		LatestChargeID:   p.LatestChargeID,
		ErrorMessage:     p.ErrorMessage,
		Metadata:         p.Metadata,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m := toPaymentModel(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).Where("provider_intent_id = ?", intentID).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

// FindCurrentByBookingID returns the most recent payment for a booking, or
// ErrNotFound when the booking has never opened a session.
func (r *PaymentRepository) FindCurrentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) UpdateStatusByIntentID(ctx context.Context, intentID string, status domain.PaymentStatus, latestChargeID, errorMessage string) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if latestChargeID != "" {
		updates["latest_charge_id"] = latestChargeID
	}
	if errorMessage != "" {
		updates["error_message"] = errorMessage
	}
	return r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("provider_intent_id = ?", intentID).
		Updates(updates).Error
}
