package fleet

import "errors"

var (
	ErrCarNotFound = errors.New("car not found")
	ErrInvalidCar  = errors.New("invalid car")
)
