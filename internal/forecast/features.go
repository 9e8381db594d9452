package forecast

import (
	"errors"
	"fmt"

	"github.com/lox/bookingforecast/internal/models"
)

var ErrBookingAfterDeparture = errors.New("booking date after departure date")

// Derive attaches days prior and departure weekday to each record, preserving order.
func Derive(records []models.BookingRecord) ([]models.DerivedRecord, error) {
	out := make([]models.DerivedRecord, 0, len(records))
	for _, rec := range records {
		daysPrior := rec.BookingDate.DaysUntil(rec.DepartureDate)
		if daysPrior < 0 {
			return nil, fmt.Errorf("departure %s booked %s: %w", rec.DepartureDate, rec.BookingDate, ErrBookingAfterDeparture)
		}
		out = append(out, models.DerivedRecord{
			BookingRecord: rec,
			DaysPrior:     daysPrior,
			DayOfWeek:     rec.DepartureDate.Weekday(),
		})
	}
	return out, nil
}
