// Package paypal is a thin client for the PayPal Orders v2 REST API:
// create, capture, refund. Tokens are fetched with client credentials and
// cached until shortly before expiry.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/retry"
)

type Client struct {
	baseURL  string
	clientID string
	secret   string
	currency string
	http     *http.Client
	log      logger.Logger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewClient(baseURL, clientID, secret, currency string, log logger.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		currency: currency,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

// FormatAmount renders a float the way the API expects: two decimals, no
// separators.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	backoff := retry.Exponential{
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
		JitterFactor:    0.2,
	}
	err := retry.Do(ctx, 3, backoff, func() error {
		return c.fetchToken(ctx, &out)
	})
	if err != nil {
		return "", err
	}

	c.token = out.AccessToken
	// Renew a minute early so in-flight calls never carry a stale token.
	c.tokenExp = time.Now().Add(time.Duration(out.ExpiresIn-60) * time.Second)
	return c.token, nil
}

func (c *Client) fetchToken(ctx context.Context, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paypal token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("paypal token request: status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PayPal-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paypal %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		c.log.Error("paypal call failed", "method", method, "path", path, "status", resp.StatusCode, "body", string(raw))
		return fmt.Errorf("paypal %s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateOrder opens a PayPal order for the given amount and returns its id.
func (c *Client) CreateOrder(ctx context.Context, amount float64, orderNumber string) (string, error) {
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"reference_id": orderNumber,
			"amount": map[string]string{
				"currency_code": c.currency,
				"value":         FormatAmount(amount),
			},
		}},
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", payload, &out); err != nil {
		return "", err
	}
	c.log.Info("paypal order created", "paypalOrderId", out.ID, "orderNumber", orderNumber)
	return out.ID, nil
}

// CaptureResult is the slice of a capture response the service needs.
type CaptureResult struct {
	CaptureID  string
	Status     string
	PayerEmail string
}

// CaptureOrder captures an approved PayPal order and returns the capture id
// used later for refunds.
func (c *Client) CaptureOrder(ctx context.Context, paypalOrderID string) (*CaptureResult, error) {
	var out struct {
		Status string `json:"status"`
		Payer  struct {
			Email string `json:"email_address"`
		} `json:"payer"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders/"+paypalOrderID+"/capture", struct{}{}, &out); err != nil {
		return nil, err
	}

	res := &CaptureResult{Status: out.Status, PayerEmail: out.Payer.Email}
	for _, pu := range out.PurchaseUnits {
		for _, cap := range pu.Payments.Captures {
			res.CaptureID = cap.ID
		}
	}
	if out.Status != "COMPLETED" || res.CaptureID == "" {
		return nil, fmt.Errorf("paypal capture not completed: status %s", out.Status)
	}
	return res, nil
}

// RefundCapture refunds a captured payment in full.
func (c *Client) RefundCapture(ctx context.Context, captureID string, amount float64) (string, error) {
	payload := map[string]interface{}{
		"amount": map[string]string{
			"currency_code": c.currency,
			"value":         FormatAmount(amount),
		},
	}
	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/payments/captures/"+captureID+"/refund", payload, &out); err != nil {
		return "", err
	}
	c.log.Info("paypal refund issued", "captureId", captureID, "refundId", out.ID, "status", out.Status)
	return out.ID, nil
}
