package identity

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"bookastay/models"
)

const defaultShuftiBaseURL = "https://api.shuftipro.com"

// Gateway event names. Everything else is treated as an in-progress update.
const (
	EventAccepted  = "verification.accepted"
	EventDeclined  = "verification.declined"
	EventCancelled = "verification.cancelled"
)

// ShuftiClient talks to the Shufti Pro REST API with basic auth.
type ShuftiClient struct {
	clientID    string
	secretKey   string
	callbackURL string
	redirectURL string
	baseURL     string
	httpClient  *http.Client
}

func NewShuftiClient(clientID, secretKey, callbackURL, redirectURL string) *ShuftiClient {
	return &ShuftiClient{
		clientID:    clientID,
		secretKey:   secretKey,
		callbackURL: callbackURL,
		redirectURL: redirectURL,
		baseURL:     defaultShuftiBaseURL,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

// NewShuftiClientWithBaseURL is used by tests to point at a local server.
func NewShuftiClientWithBaseURL(clientID, secretKey, callbackURL, redirectURL, baseURL string) *ShuftiClient {
	c := NewShuftiClient(clientID, secretKey, callbackURL, redirectURL)
	c.baseURL = baseURL
	return c
}

// VerificationRequest is one identity check to run against the gateway.
type VerificationRequest struct {
	Reference string
	Email     string
	FullName  string
	IDType    string
	// DocumentProof is the raw bytes of the guest's ID document. When set,
	// the check runs in document mode against the uploaded image; otherwise
	// the gateway hosts an interactive journey at the returned URL.
	DocumentProof []byte
}

// GatewayResponse is the subset of the gateway reply the service uses.
type GatewayResponse struct {
	Reference       string `json:"reference"`
	Event           string `json:"event"`
	VerificationURL string `json:"verification_url"`
	Error           struct {
		Message string `json:"message"`
	} `json:"error"`
	DeclinedReason string `json:"declined_reason"`
}

// NewReference mints a verification reference unique enough across runs.
func NewReference() string {
	return fmt.Sprintf("verify_%d_%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}

// CreateVerification submits a verification request and returns the gateway
// acknowledgement. The final verdict arrives later on the callback URL.
func (c *ShuftiClient) CreateVerification(ctx context.Context, req VerificationRequest) (*GatewayResponse, error) {
	if c.clientID == "" || c.secretKey == "" {
		return nil, fmt.Errorf("identity gateway credentials are not configured")
	}

	supportedTypes := []string{"passport", "id_card", "driving_license"}
	if req.IDType != "" {
		supportedTypes = []string{req.IDType}
	}

	document := map[string]interface{}{
		"supported_types": supportedTypes,
		"name":            map[string]string{"full_name": req.FullName},
	}
	if len(req.DocumentProof) > 0 {
		document["proof"] = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(req.DocumentProof)
	}

	payload := map[string]interface{}{
		"reference":           req.Reference,
		"callback_url":        c.callbackURL,
		"redirect_url":        c.redirectURL,
		"email":               req.Email,
		"country":             "",
		"language":            "EN",
		"verification_mode":   "any",
		"allow_offline":       "1",
		"show_privacy_policy": "1",
		"document":            document,
	}

	return c.post(ctx, "/", payload)
}

// CheckStatus asks the gateway for the current state of a reference.
func (c *ShuftiClient) CheckStatus(ctx context.Context, reference string) (*GatewayResponse, error) {
	return c.post(ctx, "/status", map[string]interface{}{"reference": reference})
}

func (c *ShuftiClient) post(ctx context.Context, path string, payload interface{}) (*GatewayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.clientID, c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var out GatewayResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if resp.StatusCode >= 400 {
		msg := out.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("identity gateway rejected request: %s", msg)
	}
	return &out, nil
}

// VerifySignature checks the webhook signature header. The gateway signs
// callbacks with sha256(raw_body + secret_key), hex encoded.
func (c *ShuftiClient) VerifySignature(rawBody []byte, signature string) bool {
	if signature == "" {
		return false
	}
	sum := sha256.Sum256(append(append([]byte{}, rawBody...), []byte(c.secretKey)...))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// StatusForEvent maps a gateway event to the local verification status.
// Unknown events map to pending so in-progress updates never mark a
// session terminal.
func StatusForEvent(event string) string {
	switch event {
	case EventAccepted:
		return models.VerificationVerified
	case EventDeclined:
		return models.VerificationDeclined
	case EventCancelled:
		return models.VerificationCancelled
	default:
		return models.VerificationPending
	}
}
