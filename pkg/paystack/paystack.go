package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// SignatureHeader is the HTTP header carrying the webhook body signature.
const SignatureHeader = "X-Paystack-Signature"

const defaultBaseURL = "https://api.paystack.co"

// Client is a Paystack API client covering transaction initialization and
// webhook signature verification.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// Config holds Paystack credentials and endpoint settings.
type Config struct {
	SecretKey string
	BaseURL   string // optional, defaults to the live API
}

// NewClient creates a new Paystack client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// InitRequest is the payload for initializing a transaction.
type InitRequest struct {
	Amount    float64           `json:"-"`
	Currency  string            `json:"currency"`
	Email     string            `json:"email"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// InitResponse is the checkout handle returned by the gateway.
type InitResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// initEnvelope matches Paystack's response framing.
type initEnvelope struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    InitResponse `json:"data"`
}

// InitializeTransaction starts a payment on the gateway and returns the
// checkout URL and transaction reference. The amount is converted to the
// currency subunit as the API expects.
func (c *Client) InitializeTransaction(ctx context.Context, req InitRequest) (*InitResponse, error) {
	payload := map[string]interface{}{
		// Rounded, not truncated: 19.99 has no exact binary form and
		// truncation would bill 1998 subunits instead of 1999.
		"amount":    int64(math.Round(req.Amount * 100)),
		"currency":  req.Currency,
		"email":     req.Email,
		"reference": req.Reference,
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment initialization request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read initialize response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment initialization failed with status %d: %s", resp.StatusCode, respBody)
	}

	var envelope initEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}
	if !envelope.Status {
		return nil, fmt.Errorf("payment initialization rejected: %s", envelope.Message)
	}

	return &envelope.Data, nil
}

// VerifySignature checks the webhook body against its signature header.
// Paystack signs the raw body with HMAC-SHA512 keyed by the secret key and
// sends the hex digest. Comparison is constant time.
func (c *Client) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
