package domain

// Channel is a delivery medium for an outbound notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// EventType identifies the business event that produced a notification.
type EventType string

const (
	EventBookingConfirmation  EventType = "booking_confirmation"
	EventAppointmentCheckedIn EventType = "appointment_checked_in"
	EventAppointmentReady     EventType = "appointment_ready_for_pickup"
	EventReportCardCompleted  EventType = "report_card_completed"
	EventWaitlistSlotOpen     EventType = "waitlist_slot_open"
)

// NotificationRequest is a single outbound send handed to the provider.
// It is built by a dispatcher trigger and consumed exactly once.
type NotificationRequest struct {
	Type         EventType         `json:"type"`
	Channel      Channel           `json:"channel"`
	Recipient    string            `json:"recipient"`
	UserID       string            `json:"user_id,omitempty"`
	TemplateData map[string]string `json:"template_data"`
}

// NotificationResult is the provider's answer for one send attempt.
type NotificationResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	LogID     string `json:"log_id,omitempty"`
	Error     string `json:"error,omitempty"`
}
