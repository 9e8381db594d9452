package forecast

import (
	"fmt"

	"github.com/lox/bookingforecast/internal/models"
)

// Result is the outcome of a full training/validation run.
type Result struct {
	Profiles          *Profiles
	Evaluation        *Evaluation
	Exclusions        []Exclusion
	ValidationRecords int
}

// ExclusionCounts tallies excluded validation records by reason.
func (r *Result) ExclusionCounts() map[ExclusionReason]int {
	counts := make(map[ExclusionReason]int)
	for _, e := range r.Exclusions {
		counts[e.Reason]++
	}
	return counts
}

// Run builds profiles from training, forecasts validation and evaluates both
// models. It holds no state and is safe to call concurrently. If only the
// evaluation fails, the partial result is returned along with the error.
func Run(training, validation []models.BookingRecord) (*Result, error) {
	derivedTraining, err := Derive(training)
	if err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}
	profiles, err := BuildProfiles(derivedTraining)
	if err != nil {
		return nil, fmt.Errorf("build profiles: %w", err)
	}

	derivedValidation, err := Derive(validation)
	if err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	forecasts, excluded := Forecast(derivedValidation, profiles)

	result := &Result{
		Profiles:          profiles,
		Exclusions:        excluded,
		ValidationRecords: len(validation),
	}

	eval, err := Evaluate(forecasts)
	if err != nil {
		return result, fmt.Errorf("evaluate %d of %d validation records: %w", len(forecasts), len(validation), err)
	}
	result.Evaluation = eval

	return result, nil
}
