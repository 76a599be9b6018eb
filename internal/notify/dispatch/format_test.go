package dispatch

import "testing"

func TestFormatSchedule(t *testing.T) {
	tests := []struct {
		name  string
		iso   string
		date  string
		clock string
	}{
		{"morning", "2025-12-20T10:00:00Z", "Saturday, December 20, 2025", "10:00 AM"},
		{"afternoon", "2026-01-05T14:30:00Z", "Monday, January 5, 2026", "2:30 PM"},
		{"with offset", "2025-12-20T10:00:00-05:00", "Saturday, December 20, 2025", "10:00 AM"},
		{"unparseable passes through", "tomorrow at noon", "tomorrow at noon", "tomorrow at noon"},
		{"empty passes through", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, clock := formatSchedule(tt.iso)
			if date != tt.date {
				t.Errorf("Expected date %q, got %q", tt.date, date)
			}
			if clock != tt.clock {
				t.Errorf("Expected clock %q, got %q", tt.clock, clock)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in  float64
		out string
	}{
		{95, "$95.00"},
		{95.5, "$95.50"},
		{0.01, "$0.01"},
		{1234.567, "$1234.57"},
	}

	for _, tt := range tests {
		if got := formatPrice(tt.in); got != tt.out {
			t.Errorf("formatPrice(%v): expected %q, got %q", tt.in, tt.out, got)
		}
	}
}
