package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingDate is a single rental day with its pickup time.
type BookingDate struct {
	Date time.Time `json:"date"`
	Time string    `json:"time"`
}

// BookingDates is the list of rental days persisted as a JSON column.
type BookingDates []BookingDate

func (d BookingDates) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *BookingDates) Scan(src interface{}) error {
	return scanJSON(src, d)
}

type Customer struct {
	FirstName string `gorm:"column:customer_first_name;type:varchar(100)" json:"firstName"`
	LastName  string `gorm:"column:customer_last_name;type:varchar(100)" json:"lastName"`
	Email     string `gorm:"column:customer_email;type:varchar(255);index" json:"email"`
	Phone     string `gorm:"column:customer_phone;type:varchar(32)" json:"phone"`
}

// Booking owns at most one Payment, linked by PaymentID. Amounts are computed
// server-side at creation and never recomputed from client input:
// FinalAmount = TotalAmount - DiscountAmount.
type Booking struct {
	ID             int64         `gorm:"primaryKey" json:"id"`
	CarID          int64         `gorm:"index;not null" json:"car_id"`
	Customer       Customer      `gorm:"embedded" json:"customer"`
	Dates          BookingDates  `gorm:"type:text" json:"dates"`
	Pickup         string        `gorm:"type:text;not null" json:"pickup"`
	Status         BookingStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	TotalAmount    float64       `gorm:"not null" json:"total_amount"`
	DiscountAmount float64       `gorm:"default:0" json:"discount_amount"`
	DiscountCode   string        `gorm:"type:varchar(64)" json:"discount_code,omitempty"`
	FinalAmount    float64       `gorm:"not null" json:"final_amount"`
	PaymentMethod  PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentID      *int64        `gorm:"index" json:"payment_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Car     *Car     `json:"car,omitempty" gorm:"foreignKey:CarID"`
	Payment *Payment `json:"payment,omitempty" gorm:"foreignKey:PaymentID"`
}

func (Booking) TableName() string { return "bookings" }
