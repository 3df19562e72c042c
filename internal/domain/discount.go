package domain

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Discount struct {
	ID            int64        `gorm:"primaryKey" json:"id"`
	Code          string       `gorm:"type:varchar(64);uniqueIndex;not null" json:"code" validate:"required"`
	DiscountType  DiscountType `gorm:"type:varchar(20);not null" json:"discount_type" validate:"required"`
	DiscountValue float64      `gorm:"not null" json:"discount_value" validate:"required,gte=0"`
	MaxDiscount   float64      `json:"max_discount,omitempty"`
	MinPurchase   float64      `json:"min_purchase,omitempty"`
	ValidFrom     time.Time    `gorm:"not null" json:"valid_from" validate:"required"`
	ValidUntil    time.Time    `gorm:"not null" json:"valid_until" validate:"required"`
	UsageLimit    int          `json:"usage_limit,omitempty"`
	UsageCount    int          `gorm:"default:0" json:"usage_count"`
	IsActive      bool         `gorm:"default:true;index" json:"is_active"`
	ApplicableTo  Int64List    `gorm:"type:text" json:"applicable_to,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Discount) TableName() string { return "discounts" }
