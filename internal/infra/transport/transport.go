// Package transport provides the provider-facing send clients for the
// notification engine. It defines the Transport interface which allows
// different delivery providers (SMS gateway, email service) to be used
// interchangeably through dependency injection.
//
// The package includes HTTP clients for a generic SMS gateway and a generic
// email service, plus a no-op transport for when a channel is disabled.
// Provider-specific request/response mapping stays entirely inside this
// package; the channel adapters above it only see Message and Receipt.
package transport

import "context"

// Message is the generic payload handed to a provider. The engine never
// constructs provider-specific shapes beyond this.
type Message struct {
	// To is the medium-specific address: a phone number for SMS, an email
	// address for email.
	To string

	// Subject is used by providers with a subject line (email); SMS
	// providers ignore it.
	Subject string

	// Body is the formatted message body for the medium.
	Body string
}

// Receipt is the provider-reported outcome of a successful send.
type Receipt struct {
	// ID is the provider-assigned message id, when reported.
	ID string

	// Status is the provider-reported delivery status (e.g. "queued",
	// "sent").
	Status string
}

// Transport sends one message through one provider.
//
// Implementations must be safe for concurrent use; they are process-wide
// singletons shared across dispatches. Failures are reported as typed errors
// (RateLimitError, ClientError, ServerError) where the provider's response
// allows it, so the classifier above can map them onto canonical error kinds.
type Transport interface {
	// Send delivers the message. A nil error means the provider accepted
	// it; the returned receipt carries the provider's message id and status.
	Send(ctx context.Context, msg Message) (*Receipt, error)
}
