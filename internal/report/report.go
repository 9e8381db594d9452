package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/jszwec/csvutil"
	"github.com/lox/bookingforecast/internal/forecast"
)

type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

const (
	colAdditive       = "forecast_final_demand_addi"
	colMultiplicative = "forecast_final_demand_multi"
)

type additiveRow struct {
	DepartureDate string `csv:"departure_date"`
	BookingDate   string `csv:"booking_date"`
	Additive      string `csv:"forecast_final_demand_addi"`
}

type multiplicativeRow struct {
	DepartureDate  string `csv:"departure_date"`
	BookingDate    string `csv:"booking_date"`
	Multiplicative string `csv:"forecast_final_demand_multi"`
}

type tieRow struct {
	DepartureDate  string `csv:"departure_date"`
	BookingDate    string `csv:"booking_date"`
	Additive       string `csv:"forecast_final_demand_addi"`
	Multiplicative string `csv:"forecast_final_demand_multi"`
}

type profileRow struct {
	DaysPrior       int    `csv:"days_prior"`
	DayOfWeek       string `csv:"day_of_week"`
	RemainingDemand string `csv:"forecast_remaining_demand"`
	BookingRate     string `csv:"average_booking_rate"`
	Samples         int    `csv:"samples"`
}

type exclusionRow struct {
	DepartureDate string `csv:"departure_date"`
	BookingDate   string `csv:"booking_date"`
	Line          int    `csv:"line"`
	Reason        string `csv:"reason"`
}

// ResultColumns names the columns of the result table for a winner.
func ResultColumns(w forecast.Winner) []string {
	switch w {
	case forecast.WinnerAdditive:
		return []string{"departure_date", "booking_date", colAdditive}
	case forecast.WinnerMultiplicative:
		return []string{"departure_date", "booking_date", colMultiplicative}
	default:
		return []string{"departure_date", "booking_date", colAdditive, colMultiplicative}
	}
}

// WriteResult writes the identifying columns and the winning forecast
// column(s), one row per scored validation record.
func WriteResult(w io.Writer, f Format, e *forecast.Evaluation) error {
	var rows any
	switch e.Winner {
	case forecast.WinnerAdditive:
		r := make([]additiveRow, len(e.Records))
		for i, rec := range e.Records {
			r[i] = additiveRow{rec.DepartureDate.String(), rec.BookingDate.String(), formatValue(rec.ForecastAdditive)}
		}
		rows = r
	case forecast.WinnerMultiplicative:
		r := make([]multiplicativeRow, len(e.Records))
		for i, rec := range e.Records {
			r[i] = multiplicativeRow{rec.DepartureDate.String(), rec.BookingDate.String(), formatValue(rec.ForecastMultiplicative)}
		}
		rows = r
	default:
		r := make([]tieRow, len(e.Records))
		for i, rec := range e.Records {
			r[i] = tieRow{rec.DepartureDate.String(), rec.BookingDate.String(), formatValue(rec.ForecastAdditive), formatValue(rec.ForecastMultiplicative)}
		}
		rows = r
	}
	return write(w, f, rows)
}

// WriteProfiles lists both profiles side by side, keyed by days prior and weekday.
func WriteProfiles(w io.Writer, f Format, p *forecast.Profiles) error {
	keys := p.RemainingDemand.Keys()
	rows := make([]profileRow, 0, len(keys))
	for _, k := range keys {
		remaining, _ := p.RemainingDemand.Lookup(k)
		row := profileRow{
			DaysPrior:       k.DaysPrior,
			DayOfWeek:       k.DayOfWeek.String(),
			RemainingDemand: formatValue(remaining),
			Samples:         p.RemainingDemand.SampleSize(k),
		}
		if rate, ok := p.BookingRate.Lookup(k); ok {
			row.BookingRate = formatValue(rate)
		}
		rows = append(rows, row)
	}
	return write(w, f, rows)
}

func WriteExclusions(w io.Writer, f Format, excluded []forecast.Exclusion) error {
	if len(excluded) == 0 {
		return nil
	}
	rows := make([]exclusionRow, len(excluded))
	for i, e := range excluded {
		rows[i] = exclusionRow{
			DepartureDate: e.Record.DepartureDate.String(),
			BookingDate:   e.Record.BookingDate.String(),
			Line:          e.Record.Line,
			Reason:        string(e.Reason),
		}
	}
	return write(w, f, rows)
}

// write renders a non-empty slice of tagged rows with a header. Text output
// is the same encoding tab separated and aligned into columns.
func write(w io.Writer, f Format, rows any) error {
	var cw *csv.Writer
	var tw *tabwriter.Writer
	switch f {
	case FormatCSV:
		cw = csv.NewWriter(w)
	case FormatText:
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		cw = csv.NewWriter(tw)
		cw.Comma = '\t'
	default:
		return fmt.Errorf("unknown format %q", f)
	}

	if err := csvutil.NewEncoder(cw).Encode(rows); err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if tw != nil {
		return tw.Flush()
	}
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
