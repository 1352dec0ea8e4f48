package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/infra/transport"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want entity.ErrorKind
	}{
		{
			name: "nil error",
			err:  nil,
			want: entity.ErrorKindNone,
		},
		{
			name: "rate limit error",
			err:  &transport.RateLimitError{RetryAfter: 5 * time.Second},
			want: entity.ErrorKindRateLimit,
		},
		{
			name: "server error",
			err:  &transport.ServerError{StatusCode: 503, Message: "sms gateway server error (503)"},
			want: entity.ErrorKindServer,
		},
		{
			name: "unauthorized client error",
			err:  &transport.ClientError{StatusCode: 401, Message: "sms gateway client error (401)"},
			want: entity.ErrorKindAuthentication,
		},
		{
			name: "forbidden client error",
			err:  &transport.ClientError{StatusCode: 403, Message: "sms gateway client error (403)"},
			want: entity.ErrorKindAuthentication,
		},
		{
			name: "not found client error",
			err:  &transport.ClientError{StatusCode: 404, Message: "sms gateway client error (404)"},
			want: entity.ErrorKindInvalidRecipient,
		},
		{
			name: "unprocessable client error",
			err:  &transport.ClientError{StatusCode: 422, Message: "sms gateway client error (422)"},
			want: entity.ErrorKindContent,
		},
		{
			name: "ambiguous 400 with recipient message",
			err:  &transport.ClientError{StatusCode: 400, Message: "invalid phone number format"},
			want: entity.ErrorKindInvalidRecipient,
		},
		{
			name: "ambiguous 400 without pattern falls back to content",
			err:  &transport.ClientError{StatusCode: 400, Message: "bad request"},
			want: entity.ErrorKindContent,
		},
		{
			name: "wrapped server error",
			err:  fmt.Errorf("SendSMS: %w", &transport.ServerError{StatusCode: 500, Message: "email service server error (500)"}),
			want: entity.ErrorKindServer,
		},
		{
			name: "circuit breaker open",
			err:  gobreaker.ErrOpenState,
			want: entity.ErrorKindServer,
		},
		{
			name: "context deadline exceeded",
			err:  context.DeadlineExceeded,
			want: entity.ErrorKindNetwork,
		},
		{
			name: "context canceled",
			err:  context.Canceled,
			want: entity.ErrorKindNetwork,
		},
		{
			name: "net error",
			err:  &net.DNSError{Err: "no such host", Name: "sms.example.com", IsNotFound: true},
			want: entity.ErrorKindNetwork,
		},
		{
			name: "untyped rate limit message",
			err:  errors.New("provider said: too many requests"),
			want: entity.ErrorKindRateLimit,
		},
		{
			name: "untyped auth message",
			err:  errors.New("invalid api key"),
			want: entity.ErrorKindAuthentication,
		},
		{
			name: "untyped connection message",
			err:  errors.New("dial tcp: connection refused"),
			want: entity.ErrorKindNetwork,
		},
		{
			name: "untyped unsubscribed message",
			err:  errors.New("recipient has unsubscribed"),
			want: entity.ErrorKindInvalidRecipient,
		},
		{
			name: "transport panic",
			err:  errors.New("transport panic: nil pointer dereference"),
			want: entity.ErrorKindUnknown,
		},
		{
			name: "unrecognizable error",
			err:  errors.New("something odd happened"),
			want: entity.ErrorKindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassify_UnknownIsNotRetryable(t *testing.T) {
	kind := Classify(errors.New("mystery failure"))
	assert.Equal(t, entity.ErrorKindUnknown, kind)
	assert.False(t, kind.Retryable(), "unrecognized failures must not be silently retried")
}
