package domain

import "time"

// ReportCard is a groomer's write-up for a completed appointment.
// SentAt is nil until the completion notification has been delivered;
// the timestamp is written with a compare-and-set guard so concurrent
// trigger invocations stamp it at most once.
type ReportCard struct {
	ID            string     `json:"id"`
	AppointmentID string     `json:"appointment_id"`
	CustomerID    string     `json:"customer_id"`
	PetName       string     `json:"pet_name"`
	IsDraft       bool       `json:"is_draft"`
	DoNotSend     bool       `json:"do_not_send"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
