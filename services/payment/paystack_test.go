package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref-123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"status":true,"message":"Verification successful","data":{"status":"success","reference":"ref-123","amount":17000000,"currency":"NGN","channel":"card","paid_at":"2025-06-01T10:00:00Z"}}`)
	}))
	defer srv.Close()

	client := NewPaystackClientWithBaseURL("sk_test_secret", srv.URL)
	got, err := client.Verify(context.Background(), "ref-123")
	require.NoError(t, err)
	assert.Equal(t, "ref-123", got.Reference)
	assert.Equal(t, int64(17000000), got.AmountMinor)
	assert.Equal(t, float64(170000), got.Amount())
}

func TestVerify_GatewayReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":true,"message":"Verification successful","data":{"status":"failed","reference":"ref-9","amount":0}}`)
	}))
	defer srv.Close()

	client := NewPaystackClientWithBaseURL("sk_test_secret", srv.URL)
	_, err := client.Verify(context.Background(), "ref-9")
	require.Error(t, err)
	var verr *VerificationError
	assert.True(t, errors.As(err, &verr))
}

func TestVerify_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":false,"message":"Transaction reference not found"}`)
	}))
	defer srv.Close()

	client := NewPaystackClientWithBaseURL("sk_test_secret", srv.URL)
	_, err := client.Verify(context.Background(), "missing")
	require.Error(t, err)
	var verr *VerificationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Detail, "not found")
}

func TestVerify_MissingSecret(t *testing.T) {
	client := NewPaystackClient("")
	_, err := client.Verify(context.Background(), "ref")
	require.Error(t, err)
	var verr *VerificationError
	assert.False(t, errors.As(err, &verr), "configuration errors are not verification failures")
}
