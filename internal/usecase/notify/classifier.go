package notify

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/sony/gobreaker"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/infra/transport"
)

// Classify maps a transport failure onto the canonical error kind that
// drives retry decisions. It is a pure function with no side effects and
// never panics: anything it cannot recognize comes back as
// entity.ErrorKindUnknown.
//
// Typed provider errors carrying a status code are classified first; the
// error message is only consulted as a fallback for untyped failures.
func Classify(err error) entity.ErrorKind {
	if err == nil {
		return entity.ErrorKindNone
	}

	// An open circuit means the provider has been failing; treat it like
	// the server errors that tripped it so the retry policy applies.
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return entity.ErrorKindServer
	}

	var rateLimitErr *transport.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return entity.ErrorKindRateLimit
	}

	var clientErr *transport.ClientError
	if errors.As(err, &clientErr) {
		return classifyStatusCode(clientErr.StatusCode, clientErr.Message)
	}

	var serverErr *transport.ServerError
	if errors.As(err, &serverErr) {
		return entity.ErrorKindServer
	}

	// Caller-imposed deadlines and cancellations abort in-flight sends;
	// the affected delivery is recorded as a network failure.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return entity.ErrorKindNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return entity.ErrorKindNetwork
	}

	return classifyMessage(err.Error())
}

// classifyStatusCode maps a provider 4xx status onto an error kind,
// falling back to the message when the code alone is ambiguous.
func classifyStatusCode(status int, message string) entity.ErrorKind {
	switch status {
	case 401, 403:
		return entity.ErrorKindAuthentication
	case 404, 410:
		return entity.ErrorKindInvalidRecipient
	case 413, 422:
		return entity.ErrorKindContent
	case 429:
		return entity.ErrorKindRateLimit
	}

	if kind := classifyMessage(message); kind != entity.ErrorKindUnknown {
		return kind
	}

	// Remaining 4xx codes are provider rejections of the request itself.
	return entity.ErrorKindContent
}

// messagePatterns maps lowercase substrings of provider error messages to
// error kinds. Order matters: more specific patterns come first.
var messagePatterns = []struct {
	substr string
	kind   entity.ErrorKind
}{
	{"invalid phone", entity.ErrorKindInvalidRecipient},
	{"invalid email", entity.ErrorKindInvalidRecipient},
	{"invalid recipient", entity.ErrorKindInvalidRecipient},
	{"recipient not found", entity.ErrorKindInvalidRecipient},
	{"unsubscribed", entity.ErrorKindInvalidRecipient},
	{"blocked", entity.ErrorKindInvalidRecipient},
	{"rate limit", entity.ErrorKindRateLimit},
	{"too many requests", entity.ErrorKindRateLimit},
	{"unauthorized", entity.ErrorKindAuthentication},
	{"forbidden", entity.ErrorKindAuthentication},
	{"authentication", entity.ErrorKindAuthentication},
	{"api key", entity.ErrorKindAuthentication},
	{"message too long", entity.ErrorKindContent},
	{"content rejected", entity.ErrorKindContent},
	{"spam", entity.ErrorKindContent},
	{"internal server", entity.ErrorKindServer},
	{"server error", entity.ErrorKindServer},
	{"service unavailable", entity.ErrorKindServer},
	{"bad gateway", entity.ErrorKindServer},
	{"timeout", entity.ErrorKindNetwork},
	{"timed out", entity.ErrorKindNetwork},
	{"connection refused", entity.ErrorKindNetwork},
	{"connection reset", entity.ErrorKindNetwork},
	{"no such host", entity.ErrorKindNetwork},
	{"network", entity.ErrorKindNetwork},
	{"unreachable", entity.ErrorKindNetwork},
	{"eof", entity.ErrorKindNetwork},
}

// classifyMessage is the substring fallback for errors without a usable
// status code.
func classifyMessage(message string) entity.ErrorKind {
	lower := strings.ToLower(message)
	for _, p := range messagePatterns {
		if strings.Contains(lower, p.substr) {
			return p.kind
		}
	}
	return entity.ErrorKindUnknown
}
