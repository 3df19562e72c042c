package notification

import (
	"context"
	"fmt"

	"voyarental/internal/domain"
)

// Mailer delivers customer-facing notifications. Implementations must be safe
// for concurrent use, reconciliation may fire from several goroutines.
type Mailer interface {
	SendBookingCreated(ctx context.Context, b *domain.Booking) error
	SendPaymentConfirmation(ctx context.Context, p *domain.Payment, b *domain.Booking) error
}

// ConsoleMailer writes notifications to the log instead of sending mail.
// Used in development and as the fallback when no SMTP provider is wired.
type ConsoleMailer struct {
	loggerf func(format string, args ...interface{})
}

func NewConsoleMailer(loggerf func(format string, args ...interface{})) *ConsoleMailer {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &ConsoleMailer{loggerf: loggerf}
}

func (m *ConsoleMailer) SendBookingCreated(ctx context.Context, b *domain.Booking) error {
	m.loggerf("level=info msg=notification booking_created booking_id=%d to=%s amount=%.2f",
		b.ID, b.Customer.Email, b.FinalAmount)
	return nil
}

func (m *ConsoleMailer) SendPaymentConfirmation(ctx context.Context, p *domain.Payment, b *domain.Booking) error {
	to := p.CustomerEmail
	if to == "" && b != nil {
		to = b.Customer.Email
	}
	if to == "" {
		return fmt.Errorf("no recipient for payment %s", p.TransactionReference)
	}
	m.loggerf("level=info msg=notification payment_confirmed reference=%s to=%s amount=%.2f %s",
		p.TransactionReference, to, p.Amount, p.Currency)
	return nil
}
