package payment

import (
	"context"
	"time"

	"voyarental/internal/domain"
)

type paymentRepo interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByReference(ctx context.Context, reference string) (*domain.Payment, error)
	GetByGatewayReference(ctx context.Context, gatewayRef string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	MarkCompletedIdempotent(ctx context.Context, reference string, gatewayRef string, meta domain.Metadata, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, reference string, meta domain.Metadata) error
	List(ctx context.Context, status domain.PaymentStatus, page, limit int) ([]domain.Payment, int64, error)
}

type bookingWriter interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

type gatewayClient interface {
	InitializeTransaction(ctx context.Context, req InitializeTransactionRequest) (*InitializeTransactionData, error)
	VerifyTransaction(ctx context.Context, reference string) (*TransactionData, error)
}

type notifier interface {
	SendPaymentConfirmation(ctx context.Context, p *domain.Payment, b *domain.Booking) error
}

type broadcaster interface {
	PaymentCompleted(p *domain.Payment)
}
