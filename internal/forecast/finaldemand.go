package forecast

import (
	"fmt"
	"sort"

	"github.com/lox/bookingforecast/internal/models"
)

// IntegrityError reports a departure without exactly one departure-day snapshot.
type IntegrityError struct {
	DepartureDate models.Date
	Snapshots     int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("departure %s has %d departure-day snapshots, want exactly 1", e.DepartureDate, e.Snapshots)
}

// finalDemandIndex maps each departure to the bookings on its departure-day
// snapshot. Departures with zero or several snapshots are returned as errors
// sorted by date instead.
func finalDemandIndex(records []models.DerivedRecord) (map[models.Date]float64, []*IntegrityError) {
	snapshots := make(map[models.Date]int)
	final := make(map[models.Date]float64)

	for _, rec := range records {
		if _, ok := snapshots[rec.DepartureDate]; !ok {
			snapshots[rec.DepartureDate] = 0
		}
		if rec.DaysPrior == 0 {
			snapshots[rec.DepartureDate]++
			final[rec.DepartureDate] = rec.CumBookings
		}
	}

	var bad []*IntegrityError
	for dep, n := range snapshots {
		if n != 1 {
			delete(final, dep)
			bad = append(bad, &IntegrityError{DepartureDate: dep, Snapshots: n})
		}
	}
	sort.Slice(bad, func(i, j int) bool {
		return bad[i].DepartureDate.Before(bad[j].DepartureDate.Time)
	})

	return final, bad
}
