package repository

import (
	"context"
	"strings"

	"voyarental/internal/domain"

	"gorm.io/gorm"
)

type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) Create(ctx context.Context, d *domain.Discount) error {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DiscountRepository) GetByID(ctx context.Context, id int64) (*domain.Discount, error) {
	var d domain.Discount
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByCode matches case-insensitively, codes are stored upper-cased.
func (r *DiscountRepository) GetByCode(ctx context.Context, code string) (*domain.Discount, error) {
	var d domain.Discount
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiscountRepository) List(ctx context.Context, activeOnly bool, page, limit int) ([]domain.Discount, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Discount{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var discounts []domain.Discount
	offset := (page - 1) * limit
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&discounts).Error; err != nil {
		return nil, 0, err
	}
	return discounts, total, nil
}

func (r *DiscountRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.Discount{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DiscountRepository) IncrementUsage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.Discount{}).Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}

func (r *DiscountRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Discount{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
