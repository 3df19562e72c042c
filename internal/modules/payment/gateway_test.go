package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystackClient_VerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/VOYA-1-ABCDEFG", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"id":9876,"status":"success","reference":"VOYA-1-ABCDEFG","amount":25000,"currency":"NGN","channel":"card","paid_at":"2026-03-01T10:00:00Z","customer":{"email":"rider@example.com"}}}`))
	}))
	defer srv.Close()

	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_key")
	t.Setenv("PAYSTACK_BASE_URL", srv.URL)

	c := NewPaystackClient()
	data, err := c.VerifyTransaction(context.Background(), "VOYA-1-ABCDEFG")
	require.NoError(t, err)
	assert.Equal(t, int64(9876), data.ID)
	assert.Equal(t, "success", data.Status)
	assert.Equal(t, int64(25000), data.Amount)
	assert.Equal(t, "rider@example.com", data.Customer.Email)
}

func TestPaystackClient_InitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"VOYA-1-ABCDEFG"}}`))
	}))
	defer srv.Close()

	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_key")
	t.Setenv("PAYSTACK_BASE_URL", srv.URL)

	c := NewPaystackClient()
	data, err := c.InitializeTransaction(context.Background(), InitializeTransactionRequest{
		Email:     "rider@example.com",
		Amount:    25000,
		Reference: "VOYA-1-ABCDEFG",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", data.AuthorizationURL)
	assert.Equal(t, "abc", data.AccessCode)
}

func TestPaystackClient_MissingSecretKey(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "")

	c := NewPaystackClient()
	_, err := c.VerifyTransaction(context.Background(), "VOYA-1-ABCDEFG")
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestPaystackClient_GatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	}))
	defer srv.Close()

	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_key")
	t.Setenv("PAYSTACK_BASE_URL", srv.URL)

	c := NewPaystackClient()
	_, err := c.VerifyTransaction(context.Background(), "VOYA-0-NOWHERE")
	require.ErrorIs(t, err, ErrGateway)
}
