package discount

import (
	"context"

	"voyarental/internal/domain"
)

type discountRepo interface {
	Create(ctx context.Context, d *domain.Discount) error
	GetByID(ctx context.Context, id int64) (*domain.Discount, error)
	GetByCode(ctx context.Context, code string) (*domain.Discount, error)
	List(ctx context.Context, activeOnly bool, page, limit int) ([]domain.Discount, int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	IncrementUsage(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
