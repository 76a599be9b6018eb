package domain

import "time"

// WaitlistStatus tracks where an entry is in the offer lifecycle.
type WaitlistStatus string

const (
	WaitlistActive       WaitlistStatus = "active"
	WaitlistNotified     WaitlistStatus = "notified"
	WaitlistExpiredOffer WaitlistStatus = "expired_offer"
	WaitlistClaimed      WaitlistStatus = "claimed"
)

// WaitlistEntry is a customer waiting for a slot to open for a service.
// CreatedAt defines the FIFO order in which freed slots are offered.
// Phone is empty when the customer has no phone number on file.
type WaitlistEntry struct {
	ID             string         `json:"id"`
	CustomerID     string         `json:"customer_id"`
	Phone          string         `json:"phone,omitempty"`
	PetName        string         `json:"pet_name"`
	ServiceID      string         `json:"service_id"`
	PreferredDate  time.Time      `json:"preferred_date"`
	Status         WaitlistStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	NotifiedAt     *time.Time     `json:"notified_at,omitempty"`
	OfferExpiresAt *time.Time     `json:"offer_expires_at,omitempty"`
}
