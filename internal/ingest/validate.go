package ingest

import (
	"github.com/lox/bookingforecast/internal/models"
)

const (
	FlagBookingAfterDeparture = "booking_after_departure"
	FlagNegativeBookings      = "negative_cum_bookings"
)

func ValidateRecord(rec *models.BookingRecord) []string {
	var flags []string

	if rec.BookingDate.After(rec.DepartureDate.Time) {
		flags = append(flags, FlagBookingAfterDeparture)
	}

	if rec.CumBookings < 0 {
		flags = append(flags, FlagNegativeBookings)
	}

	return flags
}
