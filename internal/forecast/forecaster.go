package forecast

import (
	"github.com/lox/bookingforecast/internal/models"
)

type ExclusionReason string

const (
	ReasonMissingFinalDemand   ExclusionReason = "missing_final_demand"
	ReasonDuplicateFinalDemand ExclusionReason = "duplicate_final_demand"
	ReasonProfileMiss          ExclusionReason = "profile_miss"
	ReasonZeroBookingRate      ExclusionReason = "zero_booking_rate"
)

// Exclusion is a validation record that could not be forecast.
type Exclusion struct {
	Record models.DerivedRecord
	Reason ExclusionReason
}

// Forecast joins the training profiles onto validation records and computes
// the additive and multiplicative final demand forecasts. Records that cannot
// be scored are returned as exclusions; input order is preserved in both.
func Forecast(validation []models.DerivedRecord, profiles *Profiles) ([]models.ForecastRecord, []Exclusion) {
	final, bad := finalDemandIndex(validation)
	badReason := make(map[models.Date]ExclusionReason, len(bad))
	for _, e := range bad {
		if e.Snapshots == 0 {
			badReason[e.DepartureDate] = ReasonMissingFinalDemand
		} else {
			badReason[e.DepartureDate] = ReasonDuplicateFinalDemand
		}
	}

	var (
		out      []models.ForecastRecord
		excluded []Exclusion
	)
	for _, rec := range validation {
		if reason, ok := badReason[rec.DepartureDate]; ok {
			excluded = append(excluded, Exclusion{Record: rec, Reason: reason})
			continue
		}

		key := rec.Key()
		remaining, okRemaining := profiles.RemainingDemand.Lookup(key)
		rate, okRate := profiles.BookingRate.Lookup(key)
		if !okRemaining || !okRate {
			excluded = append(excluded, Exclusion{Record: rec, Reason: ReasonProfileMiss})
			continue
		}
		if rate == 0 {
			excluded = append(excluded, Exclusion{Record: rec, Reason: ReasonZeroBookingRate})
			continue
		}

		out = append(out, models.ForecastRecord{
			DerivedRecord:           rec,
			FinalDemand:             final[rec.DepartureDate],
			ForecastRemainingDemand: remaining,
			AverageBookingRate:      rate,
			ForecastAdditive:        rec.CumBookings + remaining,
			ForecastMultiplicative:  rec.CumBookings / rate,
		})
	}

	return out, excluded
}
