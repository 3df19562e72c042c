package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"voyarental/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const eventChargeSuccess = "charge.success"

// Service reconciles gateway outcomes with local payment records. Webhook
// delivery, explicit verification and the browser callback all converge on
// the same completion routine, so any of the three may arrive first.
type Service struct {
	payments paymentRepo
	bookings bookingWriter
	gateway  gatewayClient
	notifier notifier
	events   broadcaster
	loggerf  func(format string, args ...interface{})

	strictAmount bool
}

func NewService(payments paymentRepo, bookings bookingWriter, gateway gatewayClient, notifier notifier, events broadcaster, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	strict := os.Getenv("PAYMENT_STRICT_AMOUNT")
	return &Service{
		payments:     payments,
		bookings:     bookings,
		gateway:      gateway,
		notifier:     notifier,
		events:       events,
		loggerf:      loggerf,
		strictAmount: strict == "1" || strict == "true",
	}
}

// InitializePayment creates a pending payment record and a gateway checkout
// session for it. References are regenerated on a unique constraint clash.
func (s *Service) InitializePayment(ctx context.Context, req InitPaymentRequest) (*InitPaymentResponse, error) {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("booking check failed: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "NGN"
	}

	p := &domain.Payment{
		BookingID:     booking.ID,
		Amount:        req.Amount,
		Currency:      currency,
		Status:        domain.PaymentStatusPending,
		PaymentMethod: domain.PaymentMethodPaystack,
		CustomerEmail: req.Email,
		Metadata:      domain.Metadata{"booking_id": booking.ID},
	}

	for attempt := 0; ; attempt++ {
		p.TransactionReference = GenerateReference()
		err = s.payments.Create(ctx, p)
		if err == nil {
			break
		}
		if isUniqueViolation(err) && attempt < 2 {
			s.loggerf("level=warn msg=duplicate payment reference, regenerating reference=%s attempt=%d", p.TransactionReference, attempt)
			continue
		}
		return nil, fmt.Errorf("save payment failed: %w", err)
	}

	data, err := s.gateway.InitializeTransaction(ctx, InitializeTransactionRequest{
		Email:       req.Email,
		Amount:      toSubunit(req.Amount),
		Reference:   p.TransactionReference,
		Currency:    currency,
		CallbackURL: req.CallbackURL,
		Metadata:    map[string]interface{}{"booking_id": booking.ID},
	})
	if err != nil {
		if ferr := s.payments.MarkFailed(ctx, p.TransactionReference, domain.Metadata{"failure_reason": "gateway initialize failed"}); ferr != nil {
			s.loggerf("level=error msg=failed to mark payment failed after init error reference=%s err=%v", p.TransactionReference, ferr)
		}
		return nil, err
	}

	s.loggerf("level=info msg=payment initialized reference=%s booking_id=%d amount=%.2f", p.TransactionReference, booking.ID, req.Amount)
	return &InitPaymentResponse{
		PaymentID:        p.ID,
		Reference:        p.TransactionReference,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
	}, nil
}

// HandleWebhook processes a signed gateway event. The signature covers the
// exact raw bytes as delivered, so the body must reach here unmodified.
func (s *Service) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	secret := os.Getenv("PAYSTACK_SECRET_KEY")
	if secret == "" {
		return fmt.Errorf("%w: PAYSTACK_SECRET_KEY is not set", ErrConfiguration)
	}
	if !VerifySignature(secret, rawBody, signature) {
		return ErrInvalidSignature
	}

	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return fmt.Errorf("decode webhook body: %w", err)
	}
	s.loggerf("level=info msg=webhook received event=%s reference=%s", env.Event, env.Data.Reference)

	if env.Event != eventChargeSuccess {
		// acknowledged but not acted on
		s.loggerf("level=info msg=ignoring webhook event event=%s", env.Event)
		return nil
	}

	p, err := s.findByAnyReference(ctx, env.Data.Reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// a reference we never issued, ack so the gateway stops retrying
			s.loggerf("level=warn msg=webhook for unknown reference reference=%s", env.Data.Reference)
			return nil
		}
		return err
	}

	outcome := gatewayOutcome{
		TransactionID: env.Data.ID,
		Amount:        env.Data.Amount,
		Channel:       env.Data.Channel,
		PaidAt:        env.Data.PaidAt,
		Source:        "webhook",
	}
	_, err = s.completePayment(ctx, p, outcome)
	return err
}

// VerifyByReference re-derives the truth from the gateway for a reference we
// issued, regardless of whether the webhook ever arrived.
func (s *Service) VerifyByReference(ctx context.Context, reference string) (*PaymentResponse, error) {
	p, err := s.payments.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	data, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}

	if data.Status != "success" {
		s.markVerificationFailed(ctx, reference, data)
		return nil, ErrPaymentFailed
	}

	outcome := gatewayOutcome{
		TransactionID: data.ID,
		Amount:        data.Amount,
		Channel:       data.Channel,
		PaidAt:        data.PaidAt,
		Source:        "verify",
	}
	if _, err := s.completePayment(ctx, p, outcome); err != nil {
		return nil, err
	}

	updated, err := s.payments.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	resp := toPaymentResponse(updated)
	return &resp, nil
}

// VerifyFromCallback handles the browser redirect after checkout. The gateway
// sends the reference as either "reference" or "trxref". Unlike the verify
// endpoint this never raises on a declined payment, the customer still lands
// on the result page and reads the outcome from the status field.
func (s *Service) VerifyFromCallback(ctx context.Context, reference, trxref string) (*CallbackResponse, error) {
	ref := reference
	if ref == "" {
		ref = trxref
	}
	if ref == "" {
		return nil, ErrPaymentNotFound
	}

	p, err := s.payments.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	data, err := s.gateway.VerifyTransaction(ctx, ref)
	if err != nil {
		return nil, err
	}

	if data.Status != "success" {
		s.markVerificationFailed(ctx, ref, data)
	} else {
		outcome := gatewayOutcome{
			TransactionID: data.ID,
			Amount:        data.Amount,
			Channel:       data.Channel,
			PaidAt:        data.PaidAt,
			Source:        "callback",
		}
		if _, err := s.completePayment(ctx, p, outcome); err != nil {
			return nil, err
		}
	}

	updated, err := s.payments.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, updated.BookingID)
	if err != nil {
		s.loggerf("level=warn msg=failed to load booking for callback receipt booking_id=%d err=%v", updated.BookingID, err)
		booking = nil
	}
	return toCallbackResponse(updated, booking), nil
}

func (s *Service) markVerificationFailed(ctx context.Context, reference string, data *TransactionData) {
	s.loggerf("level=info msg=gateway reports unsuccessful transaction reference=%s gateway_status=%s", reference, data.Status)
	if err := s.payments.MarkFailed(ctx, reference, domain.Metadata{"gateway_status": data.Status, "gateway_response": data.GatewayResponse}); err != nil {
		s.loggerf("level=error msg=failed to record failed payment reference=%s err=%v", reference, err)
	}
}

// GetPayment returns a single payment by id.
func (s *Service) GetPayment(ctx context.Context, id int64) (*PaymentResponse, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	resp := toPaymentResponse(p)
	return &resp, nil
}

// ListPayments returns payments for the admin dashboard.
func (s *Service) ListPayments(ctx context.Context, status string, page, limit int) ([]PaymentResponse, int64, error) {
	payments, total, err := s.payments.List(ctx, domain.PaymentStatus(status), page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, toPaymentResponse(&payments[i]))
	}
	return out, total, nil
}

// OverrideStatus is the admin escape hatch for manual reconciliation.
func (s *Service) OverrideStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*PaymentResponse, error) {
	if _, err := s.payments.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if err := s.payments.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=payment status overridden payment_id=%d status=%s", id, status)
	return s.GetPayment(ctx, id)
}

// findByAnyReference resolves a payment by our reference first and falls back
// to the gateway-assigned one, some gateways echo their own id in events.
func (s *Service) findByAnyReference(ctx context.Context, ref string) (*domain.Payment, error) {
	p, err := s.payments.GetByReference(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.payments.GetByGatewayReference(ctx, ref)
}

type gatewayOutcome struct {
	TransactionID int64
	Amount        int64 // currency subunit
	Channel       string
	PaidAt        string
	Source        string
}

// completePayment is the single completion routine behind all three entry
// points. The store-level compare-and-set decides the winner, side effects
// fire only for the caller that actually changed the row.
func (s *Service) completePayment(ctx context.Context, p *domain.Payment, g gatewayOutcome) (bool, error) {
	if p.Status == domain.PaymentStatusCompleted {
		s.loggerf("level=info msg=payment already completed reference=%s source=%s", p.TransactionReference, g.Source)
		return false, nil
	}

	expected := toSubunit(p.Amount)
	if g.Amount != expected {
		s.loggerf("level=warn msg=amount mismatch reference=%s expected=%d got=%d source=%s", p.TransactionReference, expected, g.Amount, g.Source)
		if s.strictAmount {
			meta := domain.Metadata{"failure_reason": "amount mismatch", "expected_amount": expected, "reported_amount": g.Amount}
			if err := s.payments.MarkFailed(ctx, p.TransactionReference, meta); err != nil {
				s.loggerf("level=error msg=failed to record amount mismatch reference=%s err=%v", p.TransactionReference, err)
			}
			return false, ErrAmountMismatch
		}
	}

	meta := domain.Metadata{
		"gateway_transaction_id": g.TransactionID,
		"reported_amount":        g.Amount,
		"completion_source":      g.Source,
	}
	if g.Channel != "" {
		meta["channel"] = g.Channel
	}

	gatewayRef := ""
	if g.TransactionID != 0 {
		gatewayRef = fmt.Sprintf("%d", g.TransactionID)
	}

	changed, err := s.payments.MarkCompletedIdempotent(ctx, p.TransactionReference, gatewayRef, meta, parsePaidAt(g.PaidAt))
	if err != nil {
		return false, err
	}
	if !changed {
		s.loggerf("level=info msg=payment already completed reference=%s source=%s", p.TransactionReference, g.Source)
		return false, nil
	}

	// payment is the source of truth, booking and notification failures are
	// logged and never propagated back to the gateway
	booking, berr := s.bookings.GetByID(ctx, p.BookingID)
	if berr != nil {
		s.loggerf("level=error msg=failed to load booking after payment booking_id=%d err=%v", p.BookingID, berr)
	} else {
		if err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingCompleted); err != nil {
			s.loggerf("level=error msg=failed to confirm booking booking_id=%d err=%v", booking.ID, err)
		}
		if s.notifier != nil {
			if err := s.notifier.SendPaymentConfirmation(ctx, p, booking); err != nil {
				s.loggerf("level=error msg=failed to send payment confirmation reference=%s err=%v", p.TransactionReference, err)
			}
		}
	}

	if s.events != nil {
		s.events.PaymentCompleted(p)
	}

	s.loggerf("level=info msg=payment completed reference=%s source=%s", p.TransactionReference, g.Source)
	return true, nil
}

// toSubunit converts a major-unit amount to the integer subunit the gateway
// reports (kobo for NGN). Rounding avoids float drift on amounts like 19.99.
func toSubunit(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func parsePaidAt(v string) time.Time {
	if v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
