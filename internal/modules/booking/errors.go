package booking

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrCarNotFound     = errors.New("car not found")
	ErrCarUnavailable  = errors.New("car is not available")
	ErrNoDates         = errors.New("at least one rental date is required")
)
