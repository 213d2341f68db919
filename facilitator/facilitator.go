// Package facilitator provides the client for the external service that
// verifies signed payments and settles them on chain. The gateway never
// inspects signatures itself; the facilitator is authoritative.
package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stacksx402/gateway"
)

// Facilitator is the contract the payment gate depends on. The HTTP Client
// satisfies it; tests substitute fakes.
type Facilitator interface {
	// Verify checks a payment authorization without executing it.
	Verify(ctx context.Context, paymentSignature string, requirements gateway.PaymentAccept) (*VerifyResponse, error)

	// Settle executes a verified payment on chain.
	Settle(ctx context.Context, paymentSignature string, requirements gateway.PaymentAccept) (*SettleResponse, error)
}

// Request is the body sent to both /verify and /settle. PaymentSignature is
// the raw, still base64-encoded payment-signature header value.
type Request struct {
	PaymentSignature string                `json:"paymentSignature"`
	Requirements     gateway.PaymentAccept `json:"requirements"`
}

// VerifyResponse is the facilitator's /verify result.
type VerifyResponse struct {
	Valid         bool   `json:"valid"`
	InvalidReason string `json:"invalidReason,omitempty"`
	Payer         string `json:"payer"`
	Amount        string `json:"amount"`
	Network       string `json:"network"`
	TxHash        string `json:"txHash,omitempty"`
}

// SettleResponse is the facilitator's /settle result. Timestamp is Unix
// milliseconds.
type SettleResponse struct {
	Settled   bool   `json:"settled"`
	TxHash    string `json:"txHash"`
	Network   string `json:"network"`
	Timestamp int64  `json:"timestamp"`
}

// Client is an HTTP facilitator client. Calls are bounded by the caller's
// context; the client never retries, because the facilitator is treated as
// authoritative and idempotent at its own layer.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a facilitator client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// Verify implements Facilitator.
func (c *Client) Verify(ctx context.Context, paymentSignature string, requirements gateway.PaymentAccept) (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.post(ctx, "/verify", paymentSignature, requirements, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Settle implements Facilitator.
func (c *Client) Settle(ctx context.Context, paymentSignature string, requirements gateway.PaymentAccept) (*SettleResponse, error) {
	var resp SettleResponse
	if err := c.post(ctx, "/settle", paymentSignature, requirements, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path, paymentSignature string, requirements gateway.PaymentAccept, out interface{}) error {
	body, err := json.Marshal(Request{
		PaymentSignature: paymentSignature,
		Requirements:     requirements,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal facilitator request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create facilitator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrFacilitatorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s returned status %d: %s",
			gateway.ErrFacilitatorUnavailable, path, resp.StatusCode, bytes.TrimSpace(text))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode facilitator response: %w", err)
	}
	return nil
}
