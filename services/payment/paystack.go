package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.paystack.co"

// Verified is the gateway's confirmed view of a payment.
type Verified struct {
	Reference   string
	AmountMinor int64 // minor currency units (kobo)
	Currency    string
	Channel     string
	PaidAt      string
}

// Amount returns the paid amount in major currency units.
func (v *Verified) Amount() float64 {
	return float64(v.AmountMinor) / 100
}

// Verifier confirms a payment reference server-side. Client-asserted
// success is never trusted.
type Verifier interface {
	Verify(ctx context.Context, reference string) (*Verified, error)
}

// VerificationError means the gateway answered but did not confirm the
// payment. Distinct from transport failures.
type VerificationError struct {
	Detail string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("payment verification failed: %s", e.Detail)
}

// PaystackClient verifies transactions against the Paystack API.
type PaystackClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewPaystackClient creates a verifier using the given secret key.
func NewPaystackClient(secretKey string) *PaystackClient {
	return &PaystackClient{
		baseURL:   defaultBaseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewPaystackClientWithBaseURL is used by tests to point at a stub server.
func NewPaystackClientWithBaseURL(secretKey, baseURL string) *PaystackClient {
	c := NewPaystackClient(secretKey)
	c.baseURL = baseURL
	return c
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Channel   string `json:"channel"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// Verify calls GET /transaction/verify/{reference}. Success requires both
// an HTTP 200 and the payload's own data.status == "success".
func (c *PaystackClient) Verify(ctx context.Context, reference string) (*Verified, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("paystack secret key is not configured")
	}

	verifyURL := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, verifyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach paystack: %w", err)
	}
	defer resp.Body.Close()

	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode paystack response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !payload.Status || payload.Data.Status != "success" {
		detail := payload.Message
		if detail == "" {
			detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return nil, &VerificationError{Detail: detail}
	}

	return &Verified{
		Reference:   payload.Data.Reference,
		AmountMinor: payload.Data.Amount,
		Currency:    payload.Data.Currency,
		Channel:     payload.Data.Channel,
		PaidAt:      payload.Data.PaidAt,
	}, nil
}
