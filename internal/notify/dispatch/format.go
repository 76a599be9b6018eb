package dispatch

import (
	"fmt"
	"time"
)

// formatSchedule renders an RFC 3339 timestamp as a long date
// ("Saturday, December 20, 2025") and a 12-hour clock time ("10:00 AM").
// On a parse failure the raw string is passed through so the template
// still has something to show.
func formatSchedule(iso string) (date, clock string) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso, iso
	}
	return t.Format("Monday, January 2, 2006"), t.Format("3:04 PM")
}

// formatPrice renders a price as "$95.00".
func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}
