package auth

import (
	"context"

	"voyarental/internal/domain"
)

type adminRepo interface {
	Create(ctx context.Context, a *domain.Admin) error
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}
