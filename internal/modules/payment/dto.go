package payment

import (
	"time"

	"voyarental/internal/domain"
)

type InitPaymentRequest struct {
	BookingID   int64   `json:"booking_id" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency"`
	CallbackURL string  `json:"callback_url"`
}

type InitPaymentResponse struct {
	PaymentID        int64  `json:"payment_id"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
}

type PaymentResponse struct {
	ID                   int64      `json:"id"`
	BookingID            int64      `json:"booking_id"`
	Amount               float64    `json:"amount"`
	Currency             string     `json:"currency"`
	Status               string     `json:"status"`
	PaymentMethod        string     `json:"payment_method"`
	TransactionReference string     `json:"transaction_reference"`
	GatewayReference     string     `json:"gateway_reference,omitempty"`
	CustomerEmail        string     `json:"customer_email"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                   p.ID,
		BookingID:            p.BookingID,
		Amount:               p.Amount,
		Currency:             p.Currency,
		Status:               string(p.Status),
		PaymentMethod:        string(p.PaymentMethod),
		TransactionReference: p.TransactionReference,
		GatewayReference:     p.GatewayReference,
		CustomerEmail:        p.CustomerEmail,
		PaidAt:               p.PaidAt,
		CreatedAt:            p.CreatedAt,
	}
}

// Receipt is the customer-facing summary rendered on the checkout result
// page.
type Receipt struct {
	Reference     string     `json:"reference"`
	Amount        float64    `json:"amount"`
	Date          *time.Time `json:"date,omitempty"`
	Method        string     `json:"method"`
	CustomerEmail string     `json:"customer_email"`
}

// CallbackResponse always answers the redirect with 200, the payment outcome
// travels in the status field.
type CallbackResponse struct {
	Status  string          `json:"status"`
	Receipt Receipt         `json:"receipt"`
	Booking *domain.Booking `json:"booking,omitempty"`
}

func toCallbackResponse(p *domain.Payment, b *domain.Booking) *CallbackResponse {
	return &CallbackResponse{
		Status: string(p.Status),
		Receipt: Receipt{
			Reference:     p.TransactionReference,
			Amount:        p.Amount,
			Date:          p.PaidAt,
			Method:        string(p.PaymentMethod),
			CustomerEmail: p.CustomerEmail,
		},
		Booking: b,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed failed refunded"`
}

type webhookEnvelope struct {
	Event string      `json:"event"`
	Data  webhookData `json:"data"`
}

type webhookData struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Channel   string `json:"channel"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	Metadata map[string]interface{} `json:"metadata"`
}
