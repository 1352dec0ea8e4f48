// Package engagement provides use cases for tracking user engagement with
// announcements and other subjects. It implements time-windowed
// deduplication so idempotent actions such as views are recorded at most
// once per window, while clicks on distinct URLs are never collapsed.
package engagement

import "errors"

// Sentinel errors for engagement use case operations.
var (
	// ErrInvalidAction indicates an action outside the tracked set
	// (view, dismiss, click).
	ErrInvalidAction = errors.New("invalid engagement action")

	// ErrMissingActor indicates that the actor id is empty.
	ErrMissingActor = errors.New("actor id is required")

	// ErrMissingSubject indicates that the subject id is empty.
	ErrMissingSubject = errors.New("subject id is required")
)
