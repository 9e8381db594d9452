package forecast

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/lox/bookingforecast/internal/models"
)

var (
	ErrNoScorableRecords = errors.New("no validation records could be forecast")
	ErrZeroNaiveError    = errors.New("naive forecast has zero total error, MASE is undefined")
)

type Winner int

const (
	WinnerAdditive Winner = iota
	WinnerMultiplicative
	WinnerTie
)

func (w Winner) String() string {
	switch w {
	case WinnerAdditive:
		return "additive"
	case WinnerMultiplicative:
		return "multiplicative"
	case WinnerTie:
		return "tie"
	}
	return "unknown"
}

type Evaluation struct {
	Records                  []models.ForecastRecord
	TotalErrorNaive          float64
	TotalErrorAdditive       float64
	TotalErrorMultiplicative float64
	MASEAdditive             float64
	MASEMultiplicative       float64
	Winner                   Winner
}

// Evaluate scores both candidate forecasts against the naive baseline and
// picks the one with the lower MASE. Equal scores are a tie.
func Evaluate(records []models.ForecastRecord) (*Evaluation, error) {
	if len(records) == 0 {
		return nil, ErrNoScorableRecords
	}

	e := &Evaluation{Records: make([]models.ForecastRecord, len(records))}
	for i, r := range records {
		r.ErrorNaive = math.Abs(r.NaiveForecast - r.FinalDemand)
		r.ErrorAdditive = math.Abs(r.ForecastAdditive - r.FinalDemand)
		r.ErrorMultiplicative = math.Abs(r.ForecastMultiplicative - r.FinalDemand)

		e.TotalErrorNaive += r.ErrorNaive
		e.TotalErrorAdditive += r.ErrorAdditive
		e.TotalErrorMultiplicative += r.ErrorMultiplicative
		e.Records[i] = r
	}

	if e.TotalErrorNaive == 0 {
		return nil, fmt.Errorf("%w (additive error %s, multiplicative error %s over %d records)",
			ErrZeroNaiveError, formatScore(e.TotalErrorAdditive), formatScore(e.TotalErrorMultiplicative), len(records))
	}

	e.MASEAdditive = e.TotalErrorAdditive / e.TotalErrorNaive
	e.MASEMultiplicative = e.TotalErrorMultiplicative / e.TotalErrorNaive

	switch {
	case e.MASEAdditive < e.MASEMultiplicative:
		e.Winner = WinnerAdditive
	case e.MASEAdditive == e.MASEMultiplicative:
		e.Winner = WinnerTie
	default:
		e.Winner = WinnerMultiplicative
	}

	return e, nil
}

// BestMASE is the lower of the two scores.
func (e *Evaluation) BestMASE() float64 {
	return math.Min(e.MASEAdditive, e.MASEMultiplicative)
}

func (e *Evaluation) Label() string {
	switch e.Winner {
	case WinnerAdditive:
		return "Additive method has lower MASE: " + formatScore(e.MASEAdditive)
	case WinnerMultiplicative:
		return "Multiplicative method has lower MASE: " + formatScore(e.MASEMultiplicative)
	default:
		return "Additive method and Multiplicative method have the same MASE: " + formatScore(e.MASEAdditive)
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
