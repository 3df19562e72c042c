package booking

import (
	"context"
	"errors"
	"math"

	"voyarental/internal/domain"
	"voyarental/internal/modules/payment"

	"gorm.io/gorm"
)

type Service struct {
	bookings  bookingRepo
	cars      carReader
	discounts discountApplier
	payments  paymentInitializer
	notifier  notifier
	events    broadcaster
	loggerf   func(format string, args ...interface{})
}

func NewService(bookings bookingRepo, cars carReader, discounts discountApplier, payments paymentInitializer, n notifier, events broadcaster, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings:  bookings,
		cars:      cars,
		discounts: discounts,
		payments:  payments,
		notifier:  n,
		events:    events,
		loggerf:   loggerf,
	}
}

// Create prices the booking server-side, persists it and opens a payment
// session. Client-supplied amounts are never trusted.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	if len(req.Dates) == 0 {
		return nil, ErrNoDates
	}

	car, err := s.cars.GetByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if !car.Available {
		return nil, ErrCarUnavailable
	}

	total := roundCents(car.PricePerDay * float64(len(req.Dates)))

	var discountAmount float64
	var appliedDiscount *domain.Discount
	if req.DiscountCode != "" {
		appliedDiscount, discountAmount, err = s.discounts.Apply(ctx, req.DiscountCode, total, car.ID)
		if err != nil {
			return nil, err
		}
	}

	dates := make(domain.BookingDates, 0, len(req.Dates))
	for _, d := range req.Dates {
		dates = append(dates, domain.BookingDate{Date: d.Date, Time: d.Time})
	}

	b := &domain.Booking{
		CarID: car.ID,
		Customer: domain.Customer{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
		},
		Dates:          dates,
		Pickup:         req.Pickup,
		Status:         domain.BookingPending,
		TotalAmount:    total,
		DiscountAmount: discountAmount,
		DiscountCode:   req.DiscountCode,
		FinalAmount:    roundCents(total - discountAmount),
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	if appliedDiscount != nil {
		if err := s.discounts.ConsumeUsage(ctx, appliedDiscount.ID); err != nil {
			s.loggerf("level=error msg=failed to consume discount usage discount_id=%d err=%v", appliedDiscount.ID, err)
		}
	}

	if s.events != nil {
		s.events.BookingCreated(b)
	}

	resp := &CreateResponse{Booking: b}

	initResp, err := s.payments.InitializePayment(ctx, payment.InitPaymentRequest{
		BookingID:   b.ID,
		Email:       req.Email,
		Amount:      b.FinalAmount,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		// the booking survives, payment can be retried through verify or a
		// fresh init from the client
		s.loggerf("level=error msg=payment init failed for booking booking_id=%d err=%v", b.ID, err)
		return resp, nil
	}

	if err := s.bookings.SetPaymentID(ctx, b.ID, initResp.PaymentID); err != nil {
		s.loggerf("level=error msg=failed to link payment to booking booking_id=%d payment_id=%d err=%v", b.ID, initResp.PaymentID, err)
	} else {
		b.PaymentID = &initResp.PaymentID
	}

	if s.notifier != nil {
		if err := s.notifier.SendBookingCreated(ctx, b); err != nil {
			s.loggerf("level=error msg=failed to send booking notification booking_id=%d err=%v", b.ID, err)
		}
	}

	resp.PaymentReference = initResp.Reference
	resp.AuthorizationURL = initResp.AuthorizationURL
	s.loggerf("level=info msg=booking created booking_id=%d car_id=%d final_amount=%.2f reference=%s", b.ID, car.ID, b.FinalAmount, initResp.Reference)
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, status string, page, limit int) ([]domain.Booking, int64, error) {
	return s.bookings.List(ctx, domain.BookingStatus(status), page, limit)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=booking status updated booking_id=%d status=%s", id, status)
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.bookings.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookingNotFound
	}
	return err
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
