// Package entity defines the core domain entities and validation logic for the
// notification engine. It contains the fundamental business objects such as
// NotificationEvent, DeliveryRecord and EngagementRecord, along with their
// validation rules and domain-specific errors.
package entity

// EventKind identifies the domain event that triggered a notification.
type EventKind string

const (
	EventJobAssignment        EventKind = "job_assignment"
	EventJobCompleted         EventKind = "job_completed"
	EventJobUpdated           EventKind = "job_updated"
	EventDropRequestCreated   EventKind = "drop_request_created"
	EventDropRequestApproved  EventKind = "drop_request_approved"
	EventDropRequestRejected  EventKind = "drop_request_rejected"
	EventDropRequestEscalated EventKind = "drop_request_escalated"
	EventJobInterestExpressed EventKind = "job_interest_expressed"
	EventJobInterestWithdrawn EventKind = "job_interest_withdrawn"
	EventOrgAnnouncement      EventKind = "org_announcement"
)

// knownEventKinds contains every event kind the engine accepts.
var knownEventKinds = map[EventKind]struct{}{
	EventJobAssignment:        {},
	EventJobCompleted:         {},
	EventJobUpdated:           {},
	EventDropRequestCreated:   {},
	EventDropRequestApproved:  {},
	EventDropRequestRejected:  {},
	EventDropRequestEscalated: {},
	EventJobInterestExpressed: {},
	EventJobInterestWithdrawn: {},
	EventOrgAnnouncement:      {},
}

// Valid reports whether the event kind is one the engine knows about.
func (k EventKind) Valid() bool {
	_, ok := knownEventKinds[k]
	return ok
}

// Channel identifies a delivery medium with its own transport and
// preference flag.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
)

// AllChannels lists every channel the engine can dispatch to, in the order
// results are reported. Dispatch order carries no delivery-order guarantee.
var AllChannels = []Channel{ChannelSMS, ChannelEmail, ChannelInApp}

// NotificationEvent is an immutable description of something that happened
// in the surrounding application (a job was assigned, a drop request was
// escalated, an announcement was posted). It is created by business-logic
// collaborators and consumed exactly once by the dispatch orchestrator.
type NotificationEvent struct {
	Kind        EventKind
	RecipientID string
	Title       string
	Body        string
	// Metadata carries event-specific context such as job IDs, amounts
	// and URLs. It is never mutated by the engine.
	Metadata map[string]any
}

// ChannelPreferences holds a recipient's per-channel opt-in flags.
// They are owned by the user-profile collaborator; the engine only reads them.
type ChannelPreferences struct {
	SMS   bool
	Email bool
	InApp bool
}

// Enabled reports whether the given channel is enabled for this recipient.
// Unknown channels are treated as disabled.
func (p ChannelPreferences) Enabled(ch Channel) bool {
	switch ch {
	case ChannelSMS:
		return p.SMS
	case ChannelEmail:
		return p.Email
	case ChannelInApp:
		return p.InApp
	default:
		return false
	}
}

// EnabledCount returns the number of channels the recipient has opted into.
func (p ChannelPreferences) EnabledCount() int {
	n := 0
	for _, ch := range AllChannels {
		if p.Enabled(ch) {
			n++
		}
	}
	return n
}

// Recipient is the profile slice of a user that the engine needs: contact
// data for each medium plus the channel preference flags. Loaded once per
// dispatch and shared across all channel adapters.
type Recipient struct {
	ID          string
	Phone       string
	Email       string
	Preferences ChannelPreferences
}

// Message is the medium-independent payload of a notification.
type Message struct {
	Title string
	Body  string
}
