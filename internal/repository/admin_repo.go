package repository

import (
	"context"

	"voyarental/internal/domain"

	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, a *domain.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) CountByRole(ctx context.Context, role domain.AdminRole) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Admin{}).Where("role = ?", role).Count(&cnt).Error
	return cnt, err
}
