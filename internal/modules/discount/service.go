package discount

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"voyarental/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	discounts discountRepo
	loggerf   func(format string, args ...interface{})
}

func NewService(discounts discountRepo, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{discounts: discounts, loggerf: loggerf}
}

// Apply validates a code against the purchase and returns the discount along
// with the amount to subtract. It does not consume usage, the caller commits
// usage only after the booking is actually created.
func (s *Service) Apply(ctx context.Context, code string, total float64, carID int64) (*domain.Discount, float64, error) {
	d, err := s.discounts.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	now := time.Now()
	switch {
	case !d.IsActive:
		return nil, 0, ErrInactive
	case now.Before(d.ValidFrom):
		return nil, 0, ErrNotStarted
	case now.After(d.ValidUntil):
		return nil, 0, ErrExpired
	case d.UsageLimit > 0 && d.UsageCount >= d.UsageLimit:
		return nil, 0, ErrExhausted
	case d.MinPurchase > 0 && total < d.MinPurchase:
		return nil, 0, ErrMinPurchase
	}

	if len(d.ApplicableTo) > 0 {
		applicable := false
		for _, id := range d.ApplicableTo {
			if id == carID {
				applicable = true
				break
			}
		}
		if !applicable {
			return nil, 0, ErrNotApplicable
		}
	}

	amount := s.amountFor(d, total)
	return d, amount, nil
}

func (s *Service) amountFor(d *domain.Discount, total float64) float64 {
	var amount float64
	switch d.DiscountType {
	case domain.DiscountPercentage:
		amount = total * d.DiscountValue / 100
		if d.MaxDiscount > 0 && amount > d.MaxDiscount {
			amount = d.MaxDiscount
		}
	case domain.DiscountFixed:
		amount = d.DiscountValue
	}
	if amount > total {
		amount = total
	}
	// round to cents so FinalAmount stays representable
	return math.Round(amount*100) / 100
}

// ConsumeUsage records one use of the discount.
func (s *Service) ConsumeUsage(ctx context.Context, id int64) error {
	return s.discounts.IncrementUsage(ctx, id)
}

func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	d, amount, err := s.Apply(ctx, req.Code, req.Amount, req.CarID)
	if err != nil {
		return nil, err
	}
	return &VerifyResponse{
		Code:           d.Code,
		DiscountType:   string(d.DiscountType),
		DiscountValue:  d.DiscountValue,
		DiscountAmount: amount,
		FinalAmount:    math.Round((req.Amount-amount)*100) / 100,
	}, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Discount, error) {
	d := &domain.Discount{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:  domain.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		MaxDiscount:   req.MaxDiscount,
		MinPurchase:   req.MinPurchase,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		UsageLimit:    req.UsageLimit,
		IsActive:      true,
		ApplicableTo:  req.ApplicableTo,
	}
	if err := s.discounts.Create(ctx, d); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodeTaken
		}
		return nil, err
	}
	s.loggerf("level=info msg=discount created code=%s type=%s value=%.2f", d.Code, d.DiscountType, d.DiscountValue)
	return d, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Discount, error) {
	d, err := s.discounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool, page, limit int) ([]domain.Discount, int64, error) {
	return s.discounts.List(ctx, activeOnly, page, limit)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*domain.Discount, error) {
	updates := map[string]interface{}{}
	if req.DiscountValue != nil {
		updates["discount_value"] = *req.DiscountValue
	}
	if req.MaxDiscount != nil {
		updates["max_discount"] = *req.MaxDiscount
	}
	if req.MinPurchase != nil {
		updates["min_purchase"] = *req.MinPurchase
	}
	if req.ValidFrom != nil {
		updates["valid_from"] = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = *req.ValidUntil
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.discounts.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.discounts.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
