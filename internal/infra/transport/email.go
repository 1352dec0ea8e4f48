package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmailConfig contains configuration for the email service client.
type EmailConfig struct {
	// Enabled indicates whether email delivery is enabled
	Enabled bool

	// APIURL is the email service's send endpoint
	APIURL string

	// APIKey authenticates requests to the email service
	APIKey string

	// FromAddress is the sender address on outgoing mail
	FromAddress string

	// FromName is the human-readable sender name
	FromName string

	// Timeout is the HTTP request timeout for service calls
	Timeout time.Duration
}

// EmailClient sends mail through an HTTP email delivery service.
type EmailClient struct {
	config      EmailConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewEmailClient creates a new EmailClient with the specified configuration.
//
// The client is initialized with:
//   - HTTP client with configured timeout
//   - Rate limiter set to 10 requests/second with burst of 20
//     (transactional email services tolerate higher burst than SMS gateways)
func NewEmailClient(config EmailConfig) *EmailClient {
	return &EmailClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(10.0, 20),
	}
}

// emailRequest is the JSON payload sent to the email service.
type emailRequest struct {
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name,omitempty"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	HTMLBody    string `json:"html_body"`
}

// emailResponse is the service's success response.
type emailResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// Send delivers one email through the service.
// This method implements the Transport interface.
//
// Error types mirror the SMS client: 429 maps to RateLimitError, other 4xx
// to ClientError, 5xx to ServerError and network failures to wrapped errors.
func (c *EmailClient) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := c.rateLimiter.Allow(ctx); err != nil {
		return nil, fmt.Errorf("email rate limiter: %w", err)
	}

	payload := emailRequest{
		FromAddress: c.config.FromAddress,
		FromName:    c.config.FromName,
		To:          msg.To,
		Subject:     msg.Subject,
		HTMLBody:    msg.Body,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
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
		var result emailResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return &Receipt{Status: "sent"}, nil
		}
		return &Receipt{ID: result.MessageID, Status: result.Status}, nil
	}

	return nil, statusError("email service", resp, body)
}
