package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{9.5, "9.50"},
		{19.999, "20.00"},
		{150, "150.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in))
	}
}

func TestCreateOrderSendsAmount(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "test-token",
				"expires_in":   3600,
			})
		case "/v2/checkout/orders":
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.NotEmpty(t, r.Header.Get("PayPal-Request-Id"))
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "PAYPAL-123"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret", "USD", logger.Nop())
	paypalOrderID, err := client.CreateOrder(context.Background(), 49.9, "PD-TEST")
	require.NoError(t, err)
	assert.Equal(t, "PAYPAL-123", paypalOrderID)

	units := gotBody["purchase_units"].([]interface{})
	amount := units[0].(map[string]interface{})["amount"].(map[string]interface{})
	assert.Equal(t, "49.90", amount["value"])
	assert.Equal(t, "USD", amount["currency_code"])
}

func TestCaptureOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "test-token",
				"expires_in":   3600,
			})
		case "/v2/checkout/orders/PAYPAL-123/capture":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "COMPLETED",
				"payer":  map[string]string{"email_address": "buyer@example.com"},
				"purchase_units": []map[string]interface{}{{
					"payments": map[string]interface{}{
						"captures": []map[string]string{{"id": "CAP-1", "status": "COMPLETED"}},
					},
				}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret", "USD", logger.Nop())
	res, err := client.CaptureOrder(context.Background(), "PAYPAL-123")
	require.NoError(t, err)
	assert.Equal(t, "CAP-1", res.CaptureID)
	assert.Equal(t, "buyer@example.com", res.PayerEmail)
}

func TestCaptureOrderNotCompleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "test-token",
				"expires_in":   3600,
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "DECLINED"})
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret", "USD", logger.Nop())
	_, err := client.CaptureOrder(context.Background(), "PAYPAL-123")
	assert.Error(t, err)
}

func TestTokenFetchRetriesTransientFailures(t *testing.T) {
	tokenCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			tokenCalls++
			if tokenCalls == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "test-token",
				"expires_in":   3600,
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "PAYPAL-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret", "USD", logger.Nop())
	_, err := client.CreateOrder(context.Background(), 10, "PD-A")
	require.NoError(t, err)
	assert.Equal(t, 2, tokenCalls)
}

func TestTokenIsCached(t *testing.T) {
	tokenCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			tokenCalls++
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "test-token",
				"expires_in":   3600,
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "PAYPAL-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "id", "secret", "USD", logger.Nop())
	_, err := client.CreateOrder(context.Background(), 10, "PD-A")
	require.NoError(t, err)
	_, err = client.CreateOrder(context.Background(), 20, "PD-B")
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls)
}
