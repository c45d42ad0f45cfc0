package agent

import "errors"

// Error taxonomy surfaced by the orchestrator. Handlers map these onto HTTP
// statuses and user-facing messages; anything unclassified is treated as a
// generic upstream failure.
var (
	// ErrEmptyMessage rejects blank candidate messages before any work is done.
	ErrEmptyMessage = errors.New("candidate message is empty")

	// ErrRunEnded rejects turns submitted after a run's end marker.
	ErrRunEnded = errors.New("interview run has ended")

	// ErrUpstreamOverloaded marks a transient completion failure worth retrying.
	ErrUpstreamOverloaded = errors.New("completion service overloaded")

	// ErrUpstreamQuota marks an exhausted quota, not retryable within the request.
	ErrUpstreamQuota = errors.New("completion service quota exceeded")
)
