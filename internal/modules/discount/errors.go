package discount

import "errors"

var (
	ErrNotFound      = errors.New("discount not found")
	ErrInactive      = errors.New("discount is not active")
	ErrNotStarted    = errors.New("discount is not valid yet")
	ErrExpired       = errors.New("discount has expired")
	ErrExhausted     = errors.New("discount usage limit reached")
	ErrMinPurchase   = errors.New("purchase amount below discount minimum")
	ErrNotApplicable = errors.New("discount does not apply to this car")
	ErrCodeTaken     = errors.New("discount code already exists")
)
