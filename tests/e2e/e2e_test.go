package e2e

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"voyarental/internal/database"
	"voyarental/internal/domain"
	"voyarental/internal/middleware"
	"voyarental/internal/modules/auth"
	"voyarental/internal/modules/booking"
	"voyarental/internal/modules/discount"
	"voyarental/internal/modules/events"
	"voyarental/internal/modules/fleet"
	"voyarental/internal/modules/notification"
	"voyarental/internal/modules/payment"
	jwtsvc "voyarental/internal/pkg/jwt"
	"voyarental/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecretKey = "sk_test_e2e_secret"

type testSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type apiResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *apiError              `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// fakePaystack stands in for the gateway. It returns success verifications
// for any reference it has seen through initialize.
func fakePaystack(t *testing.T) *httptest.Server {
	t.Helper()

	known := map[string]int64{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/transaction/initialize":
			var req struct {
				Reference string `json:"reference"`
				Amount    int64  `json:"amount"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			known[req.Reference] = req.Amount
			fmt.Fprintf(w, `{"status":true,"message":"ok","data":{"authorization_url":"https://checkout.test/%s","access_code":"ac_%s","reference":"%s"}}`,
				req.Reference, req.Reference, req.Reference)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/transaction/verify/"):
			ref := strings.TrimPrefix(r.URL.Path, "/transaction/verify/")
			amount, ok := known[ref]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"status":false,"message":"Transaction reference not found"}`)
				return
			}
			fmt.Fprintf(w, `{"status":true,"message":"ok","data":{"id":4321,"status":"success","reference":"%s","amount":%d,"currency":"NGN","channel":"card","paid_at":"2026-03-01T10:00:00Z","customer":{"email":"ada@example.com"}}}`,
				ref, amount)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func setupSuite(t *testing.T) *testSuite {
	t.Helper()

	gateway := fakePaystack(t)
	t.Cleanup(gateway.Close)
	t.Setenv("PAYSTACK_SECRET_KEY", testSecretKey)
	t.Setenv("PAYSTACK_BASE_URL", gateway.URL)

	// shared cache keeps the in-memory database visible across pooled conns
	db, err := database.Connect(fmt.Sprintf("file:e2e_%d?mode=memory&cache=shared", time.Now().UnixNano()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Admin{},
		&domain.Car{},
		&domain.Discount{},
		&domain.Booking{},
		&domain.Payment{},
	))

	paymentRepo := repository.NewPaymentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	carRepo := repository.NewCarRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	loggerf := func(string, ...interface{}) {}
	j := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	hub := events.NewHub(loggerf)
	t.Cleanup(hub.Close)
	mailer := notification.NewConsoleMailer(loggerf)

	authHandler := auth.NewHandler(auth.NewService(adminRepo, j, loggerf), loggerf)
	fleetHandler := fleet.NewHandler(fleet.NewService(carRepo, loggerf), loggerf)
	discountService := discount.NewService(discountRepo, loggerf)
	discountHandler := discount.NewHandler(discountService, loggerf)
	paymentService := payment.NewService(paymentRepo, bookingRepo, payment.NewPaystackClient(), mailer, hub, loggerf)
	paymentHandler := payment.NewHandler(paymentService, loggerf)
	bookingService := booking.NewService(bookingRepo, carRepo, discountService, paymentService, mailer, hub, loggerf)
	bookingHandler := booking.NewHandler(bookingService, loggerf)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)
	fleetHandler.RegisterPublicRoutes(v1)
	bookingHandler.RegisterPublicRoutes(v1)
	discountHandler.RegisterPublicRoutes(v1)
	paymentHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(j))
	admin := protected.Group("/admin")
	fleetHandler.RegisterAdminRoutes(admin)
	bookingHandler.RegisterAdminRoutes(admin)
	discountHandler.RegisterAdminRoutes(admin)
	paymentHandler.RegisterAdminRoutes(admin)

	return &testSuite{router: r, db: db}
}

func (s *testSuite) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func (s *testSuite) seedCar(t *testing.T) *domain.Car {
	t.Helper()
	car := &domain.Car{
		Name:        "Toyota Corolla 2022",
		PricePerDay: 150,
		Type:        domain.CarTypeSedan,
		Images:      domain.StringList{"/images/corolla.jpg"},
		Features:    domain.CarFeatures{Seats: 5, Fuel: "Petrol", Year: 2022},
		Available:   true,
		Status:      domain.CarAvailable,
	}
	require.NoError(t, s.db.Create(car).Error)
	return car
}

func signedWebhook(reference string, amountSubunit int64) ([]byte, string) {
	body := []byte(fmt.Sprintf(`{"event":"charge.success","data":{"id":4321,"reference":"%s","amount":%d,"status":"success","channel":"card","currency":"NGN","paid_at":"2026-03-01T10:00:00Z"}}`,
		reference, amountSubunit))
	mac := hmac.New(sha512.New, []byte(testSecretKey))
	mac.Write(body)
	return body, hex.EncodeToString(mac.Sum(nil))
}

func (s *testSuite) createBooking(t *testing.T, carID int64) (reference string, bookingID int64) {
	t.Helper()

	w, resp := s.do(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"car_id":         carID,
		"first_name":     "Ada",
		"last_name":      "Okafor",
		"email":          "ada@example.com",
		"phone":          "+2348012345678",
		"dates":          []gin.H{{"date": time.Now().AddDate(0, 0, 1).Format(time.RFC3339), "time": "09:00"}, {"date": time.Now().AddDate(0, 0, 2).Format(time.RFC3339), "time": "09:00"}},
		"pickup":         "Lagos Airport",
		"payment_method": "paystack",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.True(t, resp.Success)

	reference, _ = resp.Data["payment_reference"].(string)
	require.NotEmpty(t, reference)
	b, _ := resp.Data["booking"].(map[string]interface{})
	require.NotNil(t, b)
	bookingID = int64(b["id"].(float64))
	return reference, bookingID
}

func TestBookingToPaymentFlow(t *testing.T) {
	s := setupSuite(t)
	car := s.seedCar(t)

	reference, bookingID := s.createBooking(t, car.ID)

	// pending payment linked to the booking
	var p domain.Payment
	require.NoError(t, s.db.Where("transaction_reference = ?", reference).First(&p).Error)
	assert.Equal(t, domain.PaymentStatusPending, p.Status)
	assert.Equal(t, bookingID, p.BookingID)
	assert.Equal(t, 300.0, p.Amount) // 2 days * 150

	// gateway confirms via webhook
	body, sig := signedWebhook(reference, 30000)
	w, resp := s.do(t, http.MethodPost, "/api/v1/payments/webhook", nil, nil)
	_ = resp
	require.Equal(t, http.StatusBadRequest, w.Code, "webhook without signature must be rejected")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", sig)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NoError(t, s.db.Where("transaction_reference = ?", reference).First(&p).Error)
	assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
	assert.Equal(t, "4321", p.GatewayReference)
	require.NotNil(t, p.PaidAt)

	var b domain.Booking
	require.NoError(t, s.db.First(&b, bookingID).Error)
	assert.Equal(t, domain.BookingCompleted, b.Status)
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	s := setupSuite(t)
	car := s.seedCar(t)
	reference, _ := s.createBooking(t, car.ID)

	body, sig := signedWebhook(reference, 30000)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
		req.Header.Set("x-paystack-signature", sig)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var p domain.Payment
	require.NoError(t, s.db.Where("transaction_reference = ?", reference).First(&p).Error)
	assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	s := setupSuite(t)
	car := s.seedCar(t)
	reference, _ := s.createBooking(t, car.ID)

	body, sig := signedWebhook(reference, 30000)
	tampered := bytes.Replace(body, []byte("30000"), []byte("1"), 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(tampered))
	req.Header.Set("x-paystack-signature", sig)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var p domain.Payment
	require.NoError(t, s.db.Where("transaction_reference = ?", reference).First(&p).Error)
	assert.Equal(t, domain.PaymentStatusPending, p.Status)
}

func TestVerifyEndpointReconciles(t *testing.T) {
	s := setupSuite(t)
	car := s.seedCar(t)
	reference, bookingID := s.createBooking(t, car.ID)

	// no webhook arrived, client-triggered verify recovers the truth
	w, resp := s.do(t, http.MethodPost, "/api/v1/payments/verify/"+reference, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", resp.Data["status"])

	var b domain.Booking
	require.NoError(t, s.db.First(&b, bookingID).Error)
	assert.Equal(t, domain.BookingCompleted, b.Status)

	// late webhook after verify stays a no-op
	body, sig := signedWebhook(reference, 30000)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", sig)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCallbackEndpoint(t *testing.T) {
	s := setupSuite(t)
	car := s.seedCar(t)
	reference, _ := s.createBooking(t, car.ID)

	w, resp := s.do(t, http.MethodGet, "/api/v1/payments/callback?trxref="+reference, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", resp.Data["status"])

	receipt, _ := resp.Data["receipt"].(map[string]interface{})
	require.NotNil(t, receipt)
	assert.Equal(t, reference, receipt["reference"])
	assert.Equal(t, "ada@example.com", receipt["customer_email"])
	require.NotNil(t, resp.Data["booking"])
}

func TestVerifyUnknownReference(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.do(t, http.MethodPost, "/api/v1/payments/verify/VOYA-0-NOWHERE", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PAYMENT_NOT_FOUND", resp.Error.Code)
}

func TestBookingWithDiscount(t *testing.T) {
	s := setupSuite(t)
	car := s.seedCar(t)

	require.NoError(t, s.db.Create(&domain.Discount{
		Code:          "WELCOME10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(24 * time.Hour),
		IsActive:      true,
	}).Error)

	w, resp := s.do(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"car_id":         car.ID,
		"first_name":     "Ada",
		"last_name":      "Okafor",
		"email":          "ada@example.com",
		"phone":          "+2348012345678",
		"dates":          []gin.H{{"date": time.Now().AddDate(0, 0, 1).Format(time.RFC3339), "time": "09:00"}},
		"pickup":         "Lagos Airport",
		"discount_code":  "WELCOME10",
		"payment_method": "paystack",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	b, _ := resp.Data["booking"].(map[string]interface{})
	require.NotNil(t, b)
	assert.Equal(t, 150.0, b["total_amount"])
	assert.Equal(t, 15.0, b["discount_amount"])
	assert.Equal(t, 135.0, b["final_amount"])

	var d domain.Discount
	require.NoError(t, s.db.Where("code = ?", "WELCOME10").First(&d).Error)
	assert.Equal(t, 1, d.UsageCount)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.do(t, http.MethodGet, "/api/v1/admin/payments", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "AUTH_HEADER_MISSING", resp.Error.Code)
}
