package dispatch

import "strings"

// Validation helpers for the integration boundary. Triggers themselves
// assume validated input; callers run these before invoking a trigger.

// ValidateBookingConfirmation checks that all required booking fields are
// present.
func ValidateBookingConfirmation(data BookingConfirmationData) (bool, []string) {
	var errs []string
	requireField(&errs, data.CustomerName, "customerName")
	requireField(&errs, data.CustomerEmail, "customerEmail")
	requireField(&errs, data.PetName, "petName")
	requireField(&errs, data.ServiceName, "serviceName")
	requireField(&errs, data.ScheduledAt, "scheduledAt")
	if data.TotalPrice <= 0 {
		errs = append(errs, "totalPrice must be greater than zero")
	}
	return len(errs) == 0, errs
}

// ValidateStatusChange checks that all required status-change fields are
// present. The phone number is optional; a missing one is a skip, not an
// error.
func ValidateStatusChange(data StatusChangeData) (bool, []string) {
	var errs []string
	requireField(&errs, data.AppointmentID, "appointmentId")
	requireField(&errs, data.PetName, "petName")
	requireField(&errs, string(data.Status), "status")
	return len(errs) == 0, errs
}

// ValidateReportCard checks that all required report-card fields are
// present.
func ValidateReportCard(data ReportCardData) (bool, []string) {
	var errs []string
	requireField(&errs, data.ReportCardID, "reportCardId")
	requireField(&errs, data.CustomerName, "customerName")
	requireField(&errs, data.CustomerEmail, "customerEmail")
	requireField(&errs, data.PetName, "petName")
	return len(errs) == 0, errs
}

func requireField(errs *[]string, value, name string) {
	if strings.TrimSpace(value) == "" {
		*errs = append(*errs, "missing required field: "+name)
	}
}
