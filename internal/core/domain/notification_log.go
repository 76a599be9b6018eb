package domain

import "time"

// NotificationLog records a single delivery attempt for auditing and
// retry bookkeeping. One row per channel per trigger invocation.
type NotificationLog struct {
	ID         string    `json:"id"`
	Event      EventType `json:"event"`
	Channel    Channel   `json:"channel"`
	Recipient  string    `json:"recipient"`
	UserID     string    `json:"user_id,omitempty"`
	Success    bool      `json:"success"`
	MessageID  string    `json:"message_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	RetryCount int       `json:"retry_count"`
	CreatedAt  time.Time `json:"created_at"`
}
