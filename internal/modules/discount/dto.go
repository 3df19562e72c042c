package discount

import "time"

type VerifyRequest struct {
	Code   string  `json:"code" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	CarID  int64   `json:"car_id"`
}

type VerifyResponse struct {
	Code           string  `json:"code"`
	DiscountType   string  `json:"discount_type"`
	DiscountValue  float64 `json:"discount_value"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

type CreateRequest struct {
	Code          string    `json:"code" binding:"required"`
	DiscountType  string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue float64   `json:"discount_value" binding:"required,gt=0"`
	MaxDiscount   float64   `json:"max_discount"`
	MinPurchase   float64   `json:"min_purchase"`
	ValidFrom     time.Time `json:"valid_from" binding:"required"`
	ValidUntil    time.Time `json:"valid_until" binding:"required"`
	UsageLimit    int       `json:"usage_limit"`
	ApplicableTo  []int64   `json:"applicable_to"`
}

type UpdateRequest struct {
	DiscountValue *float64   `json:"discount_value"`
	MaxDiscount   *float64   `json:"max_discount"`
	MinPurchase   *float64   `json:"min_purchase"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
	UsageLimit    *int       `json:"usage_limit"`
	IsActive      *bool      `json:"is_active"`
}
