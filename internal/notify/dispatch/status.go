package dispatch

import (
	"context"
	"fmt"

	"github.com/pawsuite/notify/internal/core/domain"
)

// StatusChangeData is the event payload for an appointment status update.
type StatusChangeData struct {
	AppointmentID  string                   `json:"appointmentId"`
	CustomerName   string                   `json:"customerName,omitempty"`
	CustomerPhone  string                   `json:"customerPhone,omitempty"`
	PetName        string                   `json:"petName"`
	Status         domain.AppointmentStatus `json:"status"`
	ManualOverride bool                     `json:"manualOverride,omitempty"`
	UserID         string                   `json:"userId,omitempty"`
	RetryCount     int                      `json:"retryCount,omitempty"`
}

// statusEvents is the allow-list of statuses that trigger an automatic
// SMS, mapped to the notification template they use.
var statusEvents = map[domain.AppointmentStatus]domain.EventType{
	domain.AppointmentCheckedIn: domain.EventAppointmentCheckedIn,
	domain.AppointmentCompleted: domain.EventAppointmentReady,
}

// AppointmentStatusChange sends the SMS for an appointment status update.
// Statuses outside the allow-list are skipped unless ManualOverride is
// set; a status with no template skips even under override, with a
// distinct reason. A missing phone number is a skip, not a failure. When
// the send fails with a retryable error, scheduling the retry is the
// caller's job; this trigger only reports it.
func (d *Dispatcher) AppointmentStatusChange(ctx context.Context, data StatusChangeData) Result {
	event, mapped := statusEvents[data.Status]
	if !mapped {
		reason := fmt.Sprintf("Status '%s' does not trigger automatic notifications", data.Status)
		if data.ManualOverride {
			reason = fmt.Sprintf("Status '%s' has no notification template", data.Status)
		}
		d.log.Info("status change skipped",
			"appointment", data.AppointmentID,
			"status", data.Status,
			"reason", reason,
		)
		return Result{Skipped: true, SkipReason: reason}
	}

	if data.CustomerPhone == "" {
		return Result{Skipped: true, SkipReason: "No phone number on file"}
	}

	tmpl := map[string]string{
		"customer_name":  data.CustomerName,
		"pet_name":       data.PetName,
		"appointment_id": data.AppointmentID,
	}

	out, errStr := d.attempt(ctx, "SMS", domain.NotificationRequest{
		Type:         event,
		Channel:      domain.ChannelSMS,
		Recipient:    data.CustomerPhone,
		UserID:       data.UserID,
		TemplateData: tmpl,
	}, data.RetryCount)

	res := Result{SMS: out}
	if errStr != "" {
		res.Errors = append(res.Errors, errStr)
		if out.Retryable {
			d.log.Info("status notification failed, an automatic retry should be scheduled",
				"appointment", data.AppointmentID,
				"status", data.Status,
			)
		}
	}
	return res
}
