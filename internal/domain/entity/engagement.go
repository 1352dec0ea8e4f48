package entity

import "time"

// EngagementAction is the kind of engagement a user had with a subject
// (typically an announcement).
type EngagementAction string

const (
	EngagementView    EngagementAction = "view"
	EngagementDismiss EngagementAction = "dismiss"
	EngagementClick   EngagementAction = "click"
)

// Valid reports whether the action is one the engine tracks.
func (a EngagementAction) Valid() bool {
	switch a {
	case EngagementView, EngagementDismiss, EngagementClick:
		return true
	default:
		return false
	}
}

// EngagementRecord captures a single user engagement with a subject.
// Records are created at most once per (actor, subject, action) within the
// deduplication window, immutable thereafter, and never expired or deleted
// by this engine.
type EngagementRecord struct {
	ID        string
	SubjectID string
	ActorID   string
	Action    EngagementAction
	Metadata  map[string]any
	CreatedAt time.Time
}

// MetadataURL returns the "url" metadata value, if present. Click actions
// are only deduplicated against prior clicks on the same URL.
func (r *EngagementRecord) MetadataURL() string {
	if r.Metadata == nil {
		return ""
	}
	url, _ := r.Metadata["url"].(string)
	return url
}
