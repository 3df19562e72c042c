package repository

import (
	"context"

	"voyarental/internal/domain"

	"gorm.io/gorm"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

// CarFilter narrows fleet listings. Zero values mean "no constraint".
type CarFilter struct {
	Type          domain.CarType
	MinPrice      float64
	MaxPrice      float64
	AvailableOnly bool
	Search        string
}

func (r *CarRepository) Create(ctx context.Context, c *domain.Car) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	var c domain.Car
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetRandomAvailable picks one available car for the landing page.
func (r *CarRepository) GetRandomAvailable(ctx context.Context) (*domain.Car, error) {
	var c domain.Car
	if err := r.db.WithContext(ctx).Where("available = ?", true).Order("RANDOM()").First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CarRepository) List(ctx context.Context, f CarFilter, page, limit int) ([]domain.Car, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Car{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.MinPrice > 0 {
		q = q.Where("price_per_day >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price_per_day <= ?", f.MaxPrice)
	}
	if f.AvailableOnly {
		q = q.Where("available = ?", true)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cars []domain.Car
	offset := (page - 1) * limit
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&cars).Error; err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

func (r *CarRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.Car{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Car{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
