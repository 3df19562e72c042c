package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"voyarental/internal/domain"
	"voyarental/internal/modules/payment"

	"gorm.io/gorm"
)

type mockBookingRepo struct {
	booking      *domain.Booking
	paymentLinks int
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	b.ID = 1
	m.booking = b
	return nil
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if m.booking == nil || m.booking.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return m.booking, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	m.booking.Status = status
	return nil
}

func (m *mockBookingRepo) SetPaymentID(ctx context.Context, id, paymentID int64) error {
	m.paymentLinks++
	return nil
}

func (m *mockBookingRepo) List(ctx context.Context, status domain.BookingStatus, page, limit int) ([]domain.Booking, int64, error) {
	return nil, 0, nil
}

func (m *mockBookingRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockCarReader struct {
	car *domain.Car
}

func (m *mockCarReader) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	if m.car == nil || m.car.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return m.car, nil
}

type mockDiscountApplier struct {
	discount *domain.Discount
	amount   float64
	err      error
	consumed int
}

func (m *mockDiscountApplier) Apply(ctx context.Context, code string, total float64, carID int64) (*domain.Discount, float64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.discount, m.amount, nil
}

func (m *mockDiscountApplier) ConsumeUsage(ctx context.Context, id int64) error {
	m.consumed++
	return nil
}

type mockPaymentInitializer struct {
	err   error
	calls int
	last  payment.InitPaymentRequest
}

func (m *mockPaymentInitializer) InitializePayment(ctx context.Context, req payment.InitPaymentRequest) (*payment.InitPaymentResponse, error) {
	m.calls++
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &payment.InitPaymentResponse{
		PaymentID:        7,
		Reference:        "VOYA-1-ABCDEFG",
		AuthorizationURL: "https://checkout.example/abc",
	}, nil
}

type mockNotifier struct {
	sent int
}

func (m *mockNotifier) SendBookingCreated(ctx context.Context, b *domain.Booking) error {
	m.sent++
	return nil
}

type mockBroadcaster struct {
	created int
}

func (m *mockBroadcaster) BookingCreated(b *domain.Booking) {
	m.created++
}

func testCar() *domain.Car {
	return &domain.Car{ID: 3, Name: "Toyota Corolla", PricePerDay: 150, Available: true}
}

func createReq(days int) CreateRequest {
	dates := make([]DateRequest, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, DateRequest{Date: time.Now().AddDate(0, 0, i+1), Time: "09:00"})
	}
	return CreateRequest{
		CarID:         3,
		FirstName:     "Ada",
		LastName:      "Okafor",
		Email:         "ada@example.com",
		Phone:         "+2348012345678",
		Dates:         dates,
		Pickup:        "Lagos Airport",
		PaymentMethod: "paystack",
	}
}

func TestCreate_PricesServerSide(t *testing.T) {
	repo := &mockBookingRepo{}
	payments := &mockPaymentInitializer{}
	notif := &mockNotifier{}
	events := &mockBroadcaster{}
	svc := NewService(repo, &mockCarReader{car: testCar()}, &mockDiscountApplier{}, payments, notif, events, nil)

	resp, err := svc.Create(context.Background(), createReq(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Booking.TotalAmount != 450 {
		t.Fatalf("expected total 450, got %.2f", resp.Booking.TotalAmount)
	}
	if resp.Booking.FinalAmount != 450 {
		t.Fatalf("expected final 450, got %.2f", resp.Booking.FinalAmount)
	}
	if payments.last.Amount != 450 {
		t.Fatalf("payment must be opened for the final amount, got %.2f", payments.last.Amount)
	}
	if resp.AuthorizationURL == "" || resp.PaymentReference == "" {
		t.Fatalf("expected checkout details in response")
	}
	if repo.paymentLinks != 1 {
		t.Fatalf("expected payment linked to booking")
	}
	if notif.sent != 1 {
		t.Fatalf("expected booking notification sent once, got %d", notif.sent)
	}
	if events.created != 1 {
		t.Fatalf("expected one booking.created broadcast, got %d", events.created)
	}
}

func TestCreate_AppliesDiscount(t *testing.T) {
	discounts := &mockDiscountApplier{discount: &domain.Discount{ID: 9, Code: "SUMMER20"}, amount: 90}
	payments := &mockPaymentInitializer{}
	svc := NewService(&mockBookingRepo{}, &mockCarReader{car: testCar()}, discounts, payments, &mockNotifier{}, nil, nil)

	req := createReq(3)
	req.DiscountCode = "SUMMER20"
	resp, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Booking.DiscountAmount != 90 || resp.Booking.FinalAmount != 360 {
		t.Fatalf("expected 450-90=360, got discount=%.2f final=%.2f", resp.Booking.DiscountAmount, resp.Booking.FinalAmount)
	}
	if payments.last.Amount != 360 {
		t.Fatalf("payment must use the discounted amount, got %.2f", payments.last.Amount)
	}
	if discounts.consumed != 1 {
		t.Fatalf("expected discount usage consumed once, got %d", discounts.consumed)
	}
}

func TestCreate_DiscountRejectionAborts(t *testing.T) {
	wantErr := errors.New("discount has expired")
	discounts := &mockDiscountApplier{err: wantErr}
	repo := &mockBookingRepo{}
	payments := &mockPaymentInitializer{}
	svc := NewService(repo, &mockCarReader{car: testCar()}, discounts, payments, &mockNotifier{}, nil, nil)

	req := createReq(2)
	req.DiscountCode = "OLD"
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected discount error, got %v", err)
	}
	if repo.booking != nil {
		t.Fatalf("no booking must be created when the discount is rejected")
	}
	if payments.calls != 0 {
		t.Fatalf("no payment must be opened when the discount is rejected")
	}
}

func TestCreate_CarUnavailable(t *testing.T) {
	car := testCar()
	car.Available = false
	svc := NewService(&mockBookingRepo{}, &mockCarReader{car: car}, &mockDiscountApplier{}, &mockPaymentInitializer{}, &mockNotifier{}, nil, nil)

	_, err := svc.Create(context.Background(), createReq(1))
	if !errors.Is(err, ErrCarUnavailable) {
		t.Fatalf("expected ErrCarUnavailable, got %v", err)
	}
}

func TestCreate_CarNotFound(t *testing.T) {
	svc := NewService(&mockBookingRepo{}, &mockCarReader{}, &mockDiscountApplier{}, &mockPaymentInitializer{}, &mockNotifier{}, nil, nil)

	_, err := svc.Create(context.Background(), createReq(1))
	if !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("expected ErrCarNotFound, got %v", err)
	}
}

func TestCreate_SurvivesPaymentInitFailure(t *testing.T) {
	repo := &mockBookingRepo{}
	payments := &mockPaymentInitializer{err: payment.ErrGateway}
	svc := NewService(repo, &mockCarReader{car: testCar()}, &mockDiscountApplier{}, payments, &mockNotifier{}, nil, nil)

	resp, err := svc.Create(context.Background(), createReq(2))
	if err != nil {
		t.Fatalf("booking must survive a payment init failure, got %v", err)
	}
	if resp.Booking == nil || resp.Booking.ID == 0 {
		t.Fatalf("expected persisted booking")
	}
	if resp.AuthorizationURL != "" {
		t.Fatalf("no checkout url when init failed")
	}
}
