package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Common error types returned by the SMS and email provider clients.

// RateLimitError represents a 429 rate limit error from a provider.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string // Optional custom message
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx client error from a provider.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx server error from a provider.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// providerErrorBody is the error envelope both provider APIs share.
type providerErrorBody struct {
	Code       string  `json:"code"`
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"`
}

// extractRetryAfter pulls the retry delay from a 429 response, preferring
// the JSON body's retry_after over the Retry-After header.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var provErr providerErrorBody
	if err := json.Unmarshal(body, &provErr); err == nil && provErr.RetryAfter > 0 {
		return time.Duration(provErr.RetryAfter * float64(time.Second))
	}

	if retryAfterHeader := resp.Header.Get("Retry-After"); retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	// Default retry after 5 seconds
	return 5 * time.Second
}

// statusError maps a non-2xx provider response onto the typed error the
// classifier understands.
func statusError(provider string, resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			Message:    fmt.Sprintf("%s rate limit exceeded", provider),
			RetryAfter: extractRetryAfter(resp, body),
		}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s client error (%d): %s", provider, resp.StatusCode, string(body)),
		}
	}

	if resp.StatusCode >= 500 {
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s server error (%d): %s", provider, resp.StatusCode, string(body)),
		}
	}

	return fmt.Errorf("%s unexpected status code %d: %s", provider, resp.StatusCode, string(body))
}
