package dispatch

import (
	"context"

	"github.com/pawsuite/notify/internal/core/domain"
)

// BookingConfirmationData is the event payload for a newly created booking.
type BookingConfirmationData struct {
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	PetName       string  `json:"petName"`
	ServiceName   string  `json:"serviceName"`
	ScheduledAt   string  `json:"scheduledAt"` // RFC 3339
	TotalPrice    float64 `json:"totalPrice"`
	UserID        string  `json:"userId,omitempty"`
	RetryCount    int     `json:"retryCount,omitempty"`
}

// BookingConfirmation sends the confirmation for a new booking. Email is
// always attempted; SMS only when a phone number is present. One channel
// failing never blocks the other, and overall success is the OR of the two.
func (d *Dispatcher) BookingConfirmation(ctx context.Context, data BookingConfirmationData) Result {
	date, clock := formatSchedule(data.ScheduledAt)
	tmpl := map[string]string{
		"customer_name":    data.CustomerName,
		"pet_name":         data.PetName,
		"service_name":     data.ServiceName,
		"appointment_date": date,
		"appointment_time": clock,
		"total_price":      formatPrice(data.TotalPrice),
	}

	var res Result

	out, errStr := d.attempt(ctx, "Email", domain.NotificationRequest{
		Type:         domain.EventBookingConfirmation,
		Channel:      domain.ChannelEmail,
		Recipient:    data.CustomerEmail,
		UserID:       data.UserID,
		TemplateData: tmpl,
	}, data.RetryCount)
	res.Email = out
	if errStr != "" {
		res.Errors = append(res.Errors, errStr)
	}

	if data.CustomerPhone != "" {
		out, errStr := d.attempt(ctx, "SMS", domain.NotificationRequest{
			Type:         domain.EventBookingConfirmation,
			Channel:      domain.ChannelSMS,
			Recipient:    data.CustomerPhone,
			UserID:       data.UserID,
			TemplateData: tmpl,
		}, data.RetryCount)
		res.SMS = out
		if errStr != "" {
			res.Errors = append(res.Errors, errStr)
		}
	}

	return res
}
