package discount

import (
	"context"
	"errors"
	"testing"
	"time"

	"voyarental/internal/domain"

	"gorm.io/gorm"
)

type mockDiscountRepo struct {
	discount   *domain.Discount
	usageCalls int
}

func (m *mockDiscountRepo) Create(ctx context.Context, d *domain.Discount) error { return nil }

func (m *mockDiscountRepo) GetByID(ctx context.Context, id int64) (*domain.Discount, error) {
	if m.discount == nil || m.discount.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return m.discount, nil
}

func (m *mockDiscountRepo) GetByCode(ctx context.Context, code string) (*domain.Discount, error) {
	if m.discount == nil || m.discount.Code != code {
		return nil, gorm.ErrRecordNotFound
	}
	return m.discount, nil
}

func (m *mockDiscountRepo) List(ctx context.Context, activeOnly bool, page, limit int) ([]domain.Discount, int64, error) {
	return nil, 0, nil
}

func (m *mockDiscountRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return nil
}

func (m *mockDiscountRepo) IncrementUsage(ctx context.Context, id int64) error {
	m.usageCalls++
	return nil
}

func (m *mockDiscountRepo) Delete(ctx context.Context, id int64) error { return nil }

func validDiscount() *domain.Discount {
	return &domain.Discount{
		ID:            1,
		Code:          "SUMMER20",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 20,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(24 * time.Hour),
		IsActive:      true,
	}
}

func TestApply_Percentage(t *testing.T) {
	svc := NewService(&mockDiscountRepo{discount: validDiscount()}, nil)

	_, amount, err := svc.Apply(context.Background(), "SUMMER20", 500, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 100 {
		t.Fatalf("expected 100, got %.2f", amount)
	}
}

func TestApply_PercentageCapped(t *testing.T) {
	d := validDiscount()
	d.MaxDiscount = 50
	svc := NewService(&mockDiscountRepo{discount: d}, nil)

	_, amount, err := svc.Apply(context.Background(), "SUMMER20", 500, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 50 {
		t.Fatalf("expected cap at 50, got %.2f", amount)
	}
}

func TestApply_FixedNeverExceedsTotal(t *testing.T) {
	d := validDiscount()
	d.DiscountType = domain.DiscountFixed
	d.DiscountValue = 80
	svc := NewService(&mockDiscountRepo{discount: d}, nil)

	_, amount, err := svc.Apply(context.Background(), "SUMMER20", 60, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 60 {
		t.Fatalf("fixed discount must clamp to total, got %.2f", amount)
	}
}

func TestApply_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Discount)
		total  float64
		carID  int64
		want   error
	}{
		{"inactive", func(d *domain.Discount) { d.IsActive = false }, 500, 1, ErrInactive},
		{"not started", func(d *domain.Discount) { d.ValidFrom = time.Now().Add(time.Hour) }, 500, 1, ErrNotStarted},
		{"expired", func(d *domain.Discount) { d.ValidUntil = time.Now().Add(-time.Minute) }, 500, 1, ErrExpired},
		{"exhausted", func(d *domain.Discount) { d.UsageLimit = 5; d.UsageCount = 5 }, 500, 1, ErrExhausted},
		{"below minimum", func(d *domain.Discount) { d.MinPurchase = 1000 }, 500, 1, ErrMinPurchase},
		{"wrong car", func(d *domain.Discount) { d.ApplicableTo = domain.Int64List{7, 8} }, 500, 1, ErrNotApplicable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDiscount()
			tc.mutate(d)
			svc := NewService(&mockDiscountRepo{discount: d}, nil)

			_, _, err := svc.Apply(context.Background(), "SUMMER20", tc.total, tc.carID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestApply_UnknownCode(t *testing.T) {
	svc := NewService(&mockDiscountRepo{}, nil)

	_, _, err := svc.Apply(context.Background(), "NOPE", 500, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVerify_FinalAmount(t *testing.T) {
	svc := NewService(&mockDiscountRepo{discount: validDiscount()}, nil)

	resp, err := svc.Verify(context.Background(), VerifyRequest{Code: "SUMMER20", Amount: 333.33, CarID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.DiscountAmount != 66.67 {
		t.Fatalf("expected 66.67, got %.2f", resp.DiscountAmount)
	}
	if resp.FinalAmount != 266.66 {
		t.Fatalf("expected 266.66, got %.2f", resp.FinalAmount)
	}
}
