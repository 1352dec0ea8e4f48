package entity

import "time"

// DeliveryStatus is the lifecycle state of a DeliveryRecord.
// Records transition pending -> delivered or pending -> failed, never backward.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
)

// ErrorKind is the canonical, provider-agnostic classification of a delivery
// failure. It drives retry decisions and is persisted on failed records.
type ErrorKind string

const (
	ErrorKindNone             ErrorKind = ""
	ErrorKindInvalidRecipient ErrorKind = "invalid-recipient"
	ErrorKindRateLimit        ErrorKind = "rate-limit"
	ErrorKindAuthentication   ErrorKind = "authentication"
	ErrorKindServer           ErrorKind = "server"
	ErrorKindNetwork          ErrorKind = "network"
	ErrorKindContent          ErrorKind = "content"
	ErrorKindUnknown          ErrorKind = "unknown"

	// ErrorKindValidation and ErrorKindUserNotFound are produced by the
	// orchestrator before any transport work, never by the classifier.
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindUserNotFound ErrorKind = "user-not-found"
)

// Retryable reports whether a failure of this kind is worth retrying.
// Unknown failures are deliberately non-retryable: silently retrying an
// unrecognized error could mask a misconfigured provider credential as a
// transient fault.
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrorKindNetwork, ErrorKindServer, ErrorKindRateLimit:
		return true
	default:
		return false
	}
}

// DeliveryRecord is the persisted audit row for one channel's attempt at
// delivering one event to one recipient. It is created in pending status
// before the first transport attempt and updated exactly once to its
// terminal status when the send (including retries) concludes. The engine
// never deletes delivery records.
type DeliveryRecord struct {
	ID                string
	RecipientID       string
	Channel           Channel
	Title             string
	Content           string
	Status            DeliveryStatus
	ProviderMessageID string
	ProviderStatus    string
	ErrorKind         ErrorKind
	ErrorMessage      string
	// Metadata captures audit context such as the contact address the
	// message was sent to and the originating event kind.
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the record has reached a final status.
func (r *DeliveryRecord) Terminal() bool {
	return r.Status == DeliveryDelivered || r.Status == DeliveryFailed
}
