package fleet

import (
	"context"

	"voyarental/internal/domain"
	"voyarental/internal/repository"
)

type carRepo interface {
	Create(ctx context.Context, c *domain.Car) error
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	GetRandomAvailable(ctx context.Context) (*domain.Car, error)
	List(ctx context.Context, f repository.CarFilter, page, limit int) ([]domain.Car, int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}
