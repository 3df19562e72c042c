package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodPaystack PaymentMethod = "paystack"
	PaymentMethodStripe   PaymentMethod = "stripe"
)

// Payment is one attempt to collect funds for a booking. TransactionReference
// is minted by us and immutable; GatewayReference is assigned by the gateway
// on the first successful round-trip. Status moves pending -> completed|failed
// through the reconciliation engine only; completed -> refunded only via an
// explicit admin override.
type Payment struct {
	ID                   int64         `gorm:"primaryKey" json:"id"`
	BookingID            int64         `gorm:"index;not null" json:"booking_id"`
	Amount               float64       `gorm:"not null" json:"amount"`
	Currency             string        `gorm:"type:varchar(8);default:'NGN'" json:"currency"`
	Status               PaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentMethod        PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	TransactionReference string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_reference"`
	GatewayReference     string        `gorm:"type:varchar(128);index" json:"gateway_reference,omitempty"`
	CustomerEmail        string        `gorm:"type:varchar(255);not null" json:"customer_email"`
	Metadata             Metadata      `gorm:"type:text" json:"metadata,omitempty"`
	PaidAt               *time.Time    `json:"paid_at,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
