package booking

import (
	"context"

	"voyarental/internal/domain"
	"voyarental/internal/modules/payment"
)

type bookingRepo interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	SetPaymentID(ctx context.Context, id, paymentID int64) error
	List(ctx context.Context, status domain.BookingStatus, page, limit int) ([]domain.Booking, int64, error)
	Delete(ctx context.Context, id int64) error
}

type carReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
}

type discountApplier interface {
	Apply(ctx context.Context, code string, total float64, carID int64) (*domain.Discount, float64, error)
	ConsumeUsage(ctx context.Context, id int64) error
}

type paymentInitializer interface {
	InitializePayment(ctx context.Context, req payment.InitPaymentRequest) (*payment.InitPaymentResponse, error)
}

type notifier interface {
	SendBookingCreated(ctx context.Context, b *domain.Booking) error
}

type broadcaster interface {
	BookingCreated(b *domain.Booking)
}
