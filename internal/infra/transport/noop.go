package transport

import "context"

// NoOpTransport is a no-operation implementation of the Transport interface.
// It is used when a channel is disabled to avoid nil checks in the code.
// This follows the Null Object pattern.
type NoOpTransport struct{}

// NewNoOpTransport creates a new NoOpTransport instance.
func NewNoOpTransport() *NoOpTransport {
	return &NoOpTransport{}
}

// Send does nothing and reports the message as skipped.
func (n *NoOpTransport) Send(ctx context.Context, msg Message) (*Receipt, error) {
	// No-op: intentionally does nothing
	return &Receipt{Status: "skipped"}, nil
}
