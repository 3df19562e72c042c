package payment

import "errors"

var (
	ErrConfiguration    = errors.New("payment gateway is not configured")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrGateway          = errors.New("payment gateway error")
	ErrPaymentFailed    = errors.New("payment was not successful")
	ErrAmountMismatch   = errors.New("amount mismatch")
)
