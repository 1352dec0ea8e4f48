package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// SMSConfig contains configuration for the SMS gateway client.
type SMSConfig struct {
	// Enabled indicates whether SMS delivery is enabled
	Enabled bool

	// APIURL is the gateway's message endpoint
	APIURL string

	// APIKey authenticates requests to the gateway
	APIKey string

	// Sender is the originating number or alphanumeric sender id
	Sender string

	// Timeout is the HTTP request timeout for gateway calls
	Timeout time.Duration
}

// SMSClient sends text messages through an HTTP SMS gateway.
type SMSClient struct {
	config      SMSConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewSMSClient creates a new SMSClient with the specified configuration.
//
// The client is initialized with:
//   - HTTP client with configured timeout
//   - Rate limiter set to 5 requests/second with burst of 5
//     (typical per-number gateway throughput limit)
func NewSMSClient(config SMSConfig) *SMSClient {
	return &SMSClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(5.0, 5),
	}
}

// smsRequest is the JSON payload sent to the gateway.
type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// smsResponse is the gateway's success response.
type smsResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Send delivers one text message through the gateway.
// This method implements the Transport interface.
//
// Error types:
//   - 429: RateLimitError (retryable, carries retry_after)
//   - 4xx (non-429): ClientError (non-retryable)
//   - 5xx: ServerError (retryable)
//   - Network error: wrapped connection/timeout error (retryable)
func (c *SMSClient) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := c.rateLimiter.Allow(ctx); err != nil {
		return nil, fmt.Errorf("sms rate limiter: %w", err)
	}

	payload := smsRequest{
		From: c.config.Sender,
		To:   msg.To,
		Body: msg.Body,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var result smsResponse
		if err := json.Unmarshal(body, &result); err != nil {
			// Gateway accepted the message but the body is unreadable;
			// treat as sent with no provider id.
			slog.Debug("sms gateway returned unparseable success body",
				slog.Int("status_code", resp.StatusCode))
			return &Receipt{Status: "sent"}, nil
		}
		return &Receipt{ID: result.ID, Status: result.Status}, nil
	}

	return nil, statusError("sms gateway", resp, body)
}
