package dispatch

import (
	"context"
	"strings"
	"testing"

	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/notify/errclass"
)

func bookingFixture() BookingConfirmationData {
	return BookingConfirmationData{
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		CustomerPhone: "+15550100",
		PetName:       "Biscuit",
		ServiceName:   "Full Groom",
		ScheduledAt:   "2025-12-20T10:00:00Z",
		TotalPrice:    95,
		UserID:        "user-1",
	}
}

func TestBookingConfirmation_DualChannel(t *testing.T) {
	sender := &fakeSender{}
	d, store := newTestDispatcher(sender)

	res := d.BookingConfirmation(context.Background(), bookingFixture())

	if !res.Succeeded() {
		t.Fatalf("Expected success, got errors: %v", res.Errors)
	}
	if !res.Email.Sent || !res.SMS.Sent {
		t.Errorf("Expected both channels sent, got email=%v sms=%v", res.Email.Sent, res.SMS.Sent)
	}

	reqs := sender.sent()
	if len(reqs) != 2 {
		t.Fatalf("Expected 2 sends, got %d", len(reqs))
	}

	email, ok := sender.byChannel(domain.ChannelEmail)
	if !ok {
		t.Fatal("Expected an email send")
	}
	if email.Recipient != "john@example.com" {
		t.Errorf("Expected email recipient john@example.com, got %s", email.Recipient)
	}
	if email.Type != domain.EventBookingConfirmation {
		t.Errorf("Expected event %s, got %s", domain.EventBookingConfirmation, email.Type)
	}
	if got := email.TemplateData["appointment_date"]; got != "Saturday, December 20, 2025" {
		t.Errorf("Expected formatted date, got %q", got)
	}
	if got := email.TemplateData["appointment_time"]; got != "10:00 AM" {
		t.Errorf("Expected formatted time, got %q", got)
	}
	if got := email.TemplateData["total_price"]; got != "$95.00" {
		t.Errorf("Expected formatted price, got %q", got)
	}

	sms, ok := sender.byChannel(domain.ChannelSMS)
	if !ok {
		t.Fatal("Expected an SMS send")
	}
	if sms.Recipient != "+15550100" {
		t.Errorf("Expected SMS recipient +15550100, got %s", sms.Recipient)
	}

	// One log row per channel
	if logs := store.Logs(); len(logs) != 2 {
		t.Errorf("Expected 2 log rows, got %d", len(logs))
	}
}

func TestBookingConfirmation_EmailOnlyWithoutPhone(t *testing.T) {
	sender := &fakeSender{}
	d, _ := newTestDispatcher(sender)

	data := bookingFixture()
	data.CustomerPhone = ""

	res := d.BookingConfirmation(context.Background(), data)

	if !res.Succeeded() {
		t.Fatalf("Expected success, got errors: %v", res.Errors)
	}
	if res.SMS.Attempted {
		t.Error("Expected no SMS attempt without a phone number")
	}
	if len(sender.sent()) != 1 {
		t.Errorf("Expected 1 send, got %d", len(sender.sent()))
	}
}

func TestBookingConfirmation_ChannelIndependence(t *testing.T) {
	// Email channel is down; SMS must still go out and the trigger
	// overall still succeeds.
	sender := &fakeSender{
		respond: func(req domain.NotificationRequest) (domain.NotificationResult, error) {
			if req.Channel == domain.ChannelEmail {
				return domain.NotificationResult{}, &errclass.ProviderError{Message: "upstream unavailable", Code: 503}
			}
			return domain.NotificationResult{Success: true, MessageID: "sms-1"}, nil
		},
	}
	d, _ := newTestDispatcher(sender)

	res := d.BookingConfirmation(context.Background(), bookingFixture())

	if !res.Succeeded() {
		t.Fatal("Expected success when one channel delivers")
	}
	if res.Email.Sent {
		t.Error("Expected email to fail")
	}
	if !res.SMS.Sent {
		t.Error("Expected SMS to be sent")
	}
	if !res.Email.Retryable {
		t.Error("Expected a 503 failure to be retryable")
	}
	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "Email error:") {
		t.Errorf("Expected one 'Email error:' entry, got %v", res.Errors)
	}
}

func TestBookingConfirmation_ProviderRejection(t *testing.T) {
	// The provider answers but reports failure; the error string carries
	// the 'failed' prefix and classification runs on the message text.
	sender := &fakeSender{
		respond: func(req domain.NotificationRequest) (domain.NotificationResult, error) {
			return domain.NotificationResult{Success: false, Error: "connection timeout"}, nil
		},
	}
	d, _ := newTestDispatcher(sender)

	data := bookingFixture()
	data.CustomerPhone = ""

	res := d.BookingConfirmation(context.Background(), data)

	if res.Succeeded() {
		t.Fatal("Expected failure when no channel delivers")
	}
	if !res.Retryable() {
		t.Error("Expected a timeout rejection to be retryable")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "Email failed: connection timeout" {
		t.Errorf("Expected 'Email failed: connection timeout', got %v", res.Errors)
	}
}

func TestBookingConfirmation_RetryCountRecorded(t *testing.T) {
	sender := &fakeSender{}
	d, store := newTestDispatcher(sender)

	data := bookingFixture()
	data.CustomerPhone = ""
	data.RetryCount = 3

	d.BookingConfirmation(context.Background(), data)

	logs := store.Logs()
	if len(logs) != 1 {
		t.Fatalf("Expected 1 log row, got %d", len(logs))
	}
	if logs[0].RetryCount != 3 {
		t.Errorf("Expected retry count 3 in log, got %d", logs[0].RetryCount)
	}
}
