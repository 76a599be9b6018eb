package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/pawsuite/notify/internal/core/domain"
)

// ReportCardData is the event payload for a completed report card.
type ReportCardData struct {
	ReportCardID  string `json:"reportCardId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	PetName       string `json:"petName"`
	UserID        string `json:"userId,omitempty"`
	RetryCount    int    `json:"retryCount,omitempty"`
}

// ReportCardCompleted sends the completion notice over email and, when a
// phone number exists, SMS. After any successful channel it stamps
// sent_at on the report card through a compare-and-set update (only if
// still null), so a retry racing a fresh trigger writes the timestamp at
// most once. A failed stamp is recorded as a non-fatal error string; the
// delivery outcome stays the success criterion.
func (d *Dispatcher) ReportCardCompleted(ctx context.Context, data ReportCardData) Result {
	tmpl := map[string]string{
		"customer_name":  data.CustomerName,
		"pet_name":       data.PetName,
		"report_card_id": data.ReportCardID,
	}

	var res Result

	out, errStr := d.attempt(ctx, "Email", domain.NotificationRequest{
		Type:         domain.EventReportCardCompleted,
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
			Type:         domain.EventReportCardCompleted,
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

	if res.Email.Sent || res.SMS.Sent {
		applied, err := d.reportCards.MarkSent(ctx, data.ReportCardID, time.Now().UTC())
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Failed to record sent timestamp: %s", err))
			d.log.Warn("failed to stamp sent_at", "report_card", data.ReportCardID, "error", err)
		} else if !applied {
			d.log.Debug("sent_at already stamped", "report_card", data.ReportCardID)
		}
	}

	return res
}

// CheckReportCardSendable applies the business rules that must hold
// before the completion trigger may run at all.
func CheckReportCardSendable(rc *domain.ReportCard) (bool, string) {
	if rc.IsDraft {
		return false, "Report card is still a draft"
	}
	if rc.DoNotSend {
		return false, "Report card is flagged do-not-send"
	}
	if rc.SentAt != nil {
		return false, "Report card has already been sent"
	}
	return true, ""
}
