package booking

import (
	"time"

	"voyarental/internal/domain"
)

type DateRequest struct {
	Date time.Time `json:"date" binding:"required"`
	Time string    `json:"time" binding:"required"`
}

type CreateRequest struct {
	CarID         int64         `json:"car_id" binding:"required"`
	FirstName     string        `json:"first_name" binding:"required"`
	LastName      string        `json:"last_name" binding:"required"`
	Email         string        `json:"email" binding:"required,email"`
	Phone         string        `json:"phone" binding:"required"`
	Dates         []DateRequest `json:"dates" binding:"required,min=1,dive"`
	Pickup        string        `json:"pickup" binding:"required"`
	DiscountCode  string        `json:"discount_code"`
	PaymentMethod string        `json:"payment_method" binding:"required,oneof=paystack stripe"`
	CallbackURL   string        `json:"callback_url"`
}

type CreateResponse struct {
	Booking          *domain.Booking `json:"booking"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	AuthorizationURL string          `json:"authorization_url,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed cancelled"`
}
