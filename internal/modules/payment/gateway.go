package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// PaystackClient talks to the Paystack REST API. The secret key is read from
// the environment on every call so that a missing key fails the request in
// hand instead of the whole process at startup.
type PaystackClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewPaystackClient() *PaystackClient {
	return &PaystackClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    envOrDefault("PAYSTACK_BASE_URL", "https://api.paystack.co"),
	}
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func (c *PaystackClient) secretKey() (string, error) {
	key := os.Getenv("PAYSTACK_SECRET_KEY")
	if key == "" {
		return "", fmt.Errorf("%w: PAYSTACK_SECRET_KEY is not set", ErrConfiguration)
	}
	return key, nil
}

type InitializeTransactionRequest struct {
	Email       string                 `json:"email"`
	Amount      int64                  `json:"amount"`
	Reference   string                 `json:"reference"`
	Currency    string                 `json:"currency,omitempty"`
	CallbackURL string                 `json:"callback_url,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type InitializeTransactionData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// TransactionData is the gateway's view of a transaction. Amount is in the
// currency subunit (kobo for NGN).
type TransactionData struct {
	ID              int64  `json:"id"`
	Status          string `json:"status"`
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Channel         string `json:"channel"`
	PaidAt          string `json:"paid_at"`
	GatewayResponse string `json:"gateway_response"`
	Customer        struct {
		Email string `json:"email"`
	} `json:"customer"`
}

type initializeEnvelope struct {
	Status  bool                      `json:"status"`
	Message string                    `json:"message"`
	Data    InitializeTransactionData `json:"data"`
}

type verifyEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    TransactionData `json:"data"`
}

func (c *PaystackClient) InitializeTransaction(ctx context.Context, req InitializeTransactionRequest) (*InitializeTransactionData, error) {
	key, err := c.secretKey()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+key)
	httpReq.Header.Set("Content-Type", "application/json")

	var env initializeEnvelope
	if err := c.do(httpReq, &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("%w: initialize rejected: %s", ErrGateway, env.Message)
	}
	return &env.Data, nil
}

func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*TransactionData, error) {
	key, err := c.secretKey()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+key)

	var env verifyEnvelope
	if err := c.do(httpReq, &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("%w: verify rejected: %s", ErrGateway, env.Message)
	}
	return &env.Data, nil
}

func (c *PaystackClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d: %s", ErrGateway, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}
	return nil
}
