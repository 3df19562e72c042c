package repository

import (
	"context"
	"errors"
	"time"

	"voyarental/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("transaction_reference = ?", reference).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByGatewayReference(ctx context.Context, gatewayRef string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("gateway_reference = ?", gatewayRef).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Payment{}).Where("id = ?", id).Update("status", status).Error
}

// MarkCompletedIdempotent transitions a payment to completed exactly once.
// It returns changed=false when the payment is already completed, so that
// concurrent webhook, verify and callback deliveries settle on a single winner.
func (r *PaymentRepository) MarkCompletedIdempotent(ctx context.Context, reference string, gatewayRef string, meta domain.Metadata, paidAt time.Time) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Payment
		if err := lockForUpdate(tx).Where("transaction_reference = ?", reference).First(&p).Error; err != nil {
			return err
		}
		if p.Status == domain.PaymentStatusCompleted {
			changed = false
			return nil
		}

		updates := map[string]interface{}{
			"status":  domain.PaymentStatusCompleted,
			"paid_at": paidAt,
		}
		if gatewayRef != "" {
			updates["gateway_reference"] = gatewayRef
		}
		if len(meta) > 0 {
			updates["metadata"] = p.Metadata.Merge(meta)
		}

		res := tx.Model(&domain.Payment{}).Where("transaction_reference = ?", reference).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("payment row not updated")
		}
		changed = true
		return nil
	})
	return changed, err
}

// MarkFailed records a failed gateway outcome. Completed payments are never
// downgraded, so a late failure event after a success is a no-op.
func (r *PaymentRepository) MarkFailed(ctx context.Context, reference string, meta domain.Metadata) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Payment
		if err := lockForUpdate(tx).Where("transaction_reference = ?", reference).First(&p).Error; err != nil {
			return err
		}
		if p.Status == domain.PaymentStatusCompleted {
			return nil
		}

		updates := map[string]interface{}{
			"status": domain.PaymentStatusFailed,
		}
		if len(meta) > 0 {
			updates["metadata"] = p.Metadata.Merge(meta)
		}

		return tx.Model(&domain.Payment{}).Where("transaction_reference = ?", reference).Updates(updates).Error
	})
}

// lockForUpdate takes a row lock on postgres. SQLite has no row locks, its
// transactions already serialize writers.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (r *PaymentRepository) List(ctx context.Context, status domain.PaymentStatus, page, limit int) ([]domain.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Payment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []domain.Payment
	offset := (page - 1) * limit
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
