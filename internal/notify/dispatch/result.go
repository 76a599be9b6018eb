package dispatch

import "github.com/pawsuite/notify/internal/core/domain"

// ChannelOutcome records what happened on one channel of a trigger.
// Retryable is meaningful only when the channel was attempted and not sent.
type ChannelOutcome struct {
	Attempted bool
	Sent      bool
	Retryable bool
	Result    domain.NotificationResult
}

// Result is the aggregated outcome of one trigger invocation.
// Skipped is set only when no channel was attempted at all.
type Result struct {
	Email      ChannelOutcome
	SMS        ChannelOutcome
	Skipped    bool
	SkipReason string
	Errors     []string
}

// Succeeded reports overall success: OR across attempted channels. A
// trigger that legitimately skipped (status filter, no phone number)
// counts as success with zero sends.
func (r Result) Succeeded() bool {
	if r.Skipped {
		return true
	}
	return r.Email.Sent || r.SMS.Sent
}

// Retryable reports whether any failed channel is worth retrying.
func (r Result) Retryable() bool {
	return r.Email.Retryable || r.SMS.Retryable
}
