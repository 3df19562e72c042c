package repository

import (
	"context"

	"voyarental/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Preload("Car").Preload("Payment").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Update("status", status).Error
}

func (r *BookingRepository) SetPaymentID(ctx context.Context, id, paymentID int64) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Update("payment_id", paymentID).Error
}

func (r *BookingRepository) List(ctx context.Context, status domain.BookingStatus, page, limit int) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []domain.Booking
	offset := (page - 1) * limit
	if err := q.Preload("Car").Preload("Payment").Order("created_at DESC").Offset(offset).Limit(limit).Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Delete removes a booking and its payment records together. A payment row
// must never outlive the booking it belongs to.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&domain.Payment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Booking{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
