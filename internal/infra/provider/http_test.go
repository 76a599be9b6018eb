package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/notify/errclass"
)

func sampleRequest() domain.NotificationRequest {
	return domain.NotificationRequest{
		Type:      domain.EventBookingConfirmation,
		Channel:   domain.ChannelEmail,
		Recipient: "john@example.com",
		TemplateData: map[string]string{
			"customer_name": "John Doe",
		},
	}
}

func TestHTTPSender_Send(t *testing.T) {
	var received domain.NotificationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(domain.NotificationResult{Success: true, MessageID: "msg-42"})
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL, 5*time.Second)
	res, err := s.Send(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !res.Success || res.MessageID != "msg-42" {
		t.Errorf("Unexpected result: %+v", res)
	}
	if received.Recipient != "john@example.com" {
		t.Errorf("Expected recipient forwarded, got %q", received.Recipient)
	}
}

func TestHTTPSender_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		msg  string
	}{
		{"server error with body", http.StatusServiceUnavailable, "upstream unavailable\n", "upstream unavailable"},
		{"rate limited", http.StatusTooManyRequests, "slow down", "slow down"},
		{"empty body falls back to status", http.StatusBadGateway, "", "502 Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := NewHTTPSender(srv.URL, 5*time.Second)
			_, err := s.Send(context.Background(), sampleRequest())
			if err == nil {
				t.Fatal("Expected an error")
			}

			var pe *errclass.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected a ProviderError, got %T: %v", err, err)
			}
			if pe.Code != tt.code {
				t.Errorf("Expected status %d, got %d", tt.code, pe.Code)
			}
			if pe.Message != tt.msg {
				t.Errorf("Expected message %q, got %q", tt.msg, pe.Message)
			}
		})
	}
}

func TestHTTPSender_StatusDrivesClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The body looks like a validation problem, but the 503 must win.
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("invalid state"))
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL, 5*time.Second)
	_, err := s.Send(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("Expected an error")
	}

	cls := errclass.Classify(err)
	if cls.Kind != errclass.KindTransient {
		t.Errorf("Expected transient classification from 503, got %s", cls.Kind)
	}
	if !cls.Retryable {
		t.Error("Expected a 503 to be retryable")
	}
}
