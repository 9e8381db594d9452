package report

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lox/bookingforecast/internal/forecast"
	"github.com/lox/bookingforecast/internal/models"
)

func record(dep, booked models.Date, addi, multi float64) models.ForecastRecord {
	return models.ForecastRecord{
		DerivedRecord: models.DerivedRecord{
			BookingRecord: models.BookingRecord{DepartureDate: dep, BookingDate: booked},
		},
		ForecastAdditive:       addi,
		ForecastMultiplicative: multi,
	}
}

func evaluation(w forecast.Winner) *forecast.Evaluation {
	dep := models.NewDate(2012, time.June, 15)
	return &forecast.Evaluation{
		Winner: w,
		Records: []models.ForecastRecord{
			record(dep, models.NewDate(2012, time.June, 14), 55, 60),
			record(dep, dep, 50, 50.5),
		},
	}
}

func TestWriteResult_CSV(t *testing.T) {
	tests := []struct {
		name   string
		winner forecast.Winner
		want   string
	}{
		{
			name:   "additive",
			winner: forecast.WinnerAdditive,
			want: "departure_date,booking_date,forecast_final_demand_addi\n" +
				"2012-06-15,2012-06-14,55\n" +
				"2012-06-15,2012-06-15,50\n",
		},
		{
			name:   "multiplicative",
			winner: forecast.WinnerMultiplicative,
			want: "departure_date,booking_date,forecast_final_demand_multi\n" +
				"2012-06-15,2012-06-14,60\n" +
				"2012-06-15,2012-06-15,50.5\n",
		},
		{
			name:   "tie",
			winner: forecast.WinnerTie,
			want: "departure_date,booking_date,forecast_final_demand_addi,forecast_final_demand_multi\n" +
				"2012-06-15,2012-06-14,55,60\n" +
				"2012-06-15,2012-06-15,50,50.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteResult(&buf, FormatCSV, evaluation(tt.winner)); err != nil {
				t.Fatalf("WriteResult: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("WriteResult() =\n%s\nwant\n%s", got, tt.want)
			}

			header := strings.SplitN(tt.want, "\n", 2)[0]
			if cols := ResultColumns(tt.winner); strings.Join(cols, ",") != header {
				t.Errorf("ResultColumns() = %v, want %s", cols, header)
			}
		})
	}
}

func TestWriteResult_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResult(&buf, FormatText, evaluation(forecast.WinnerTie)); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := [][]string{
		{"departure_date", "booking_date", "forecast_final_demand_addi", "forecast_final_demand_multi"},
		{"2012-06-15", "2012-06-14", "55", "60"},
		{"2012-06-15", "2012-06-15", "50", "50.5"},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i, line := range lines {
		if got := strings.Fields(line); !reflect.DeepEqual(got, want[i]) {
			t.Errorf("line %d = %v, want %v", i, got, want[i])
		}
	}

	// Columns are aligned.
	if strings.Index(lines[0], "booking_date") != strings.Index(lines[1], "2012-06-14") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestWriteResult_UnknownFormat(t *testing.T) {
	if err := WriteResult(&bytes.Buffer{}, Format("xml"), evaluation(forecast.WinnerAdditive)); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteProfiles(t *testing.T) {
	training := []models.BookingRecord{
		{DepartureDate: models.NewDate(2012, time.June, 1), BookingDate: models.NewDate(2012, time.May, 31), CumBookings: 10},
		{DepartureDate: models.NewDate(2012, time.June, 1), BookingDate: models.NewDate(2012, time.June, 1), CumBookings: 40},
	}
	derived, err := forecast.Derive(training)
	if err != nil {
		t.Fatal(err)
	}
	profiles, err := forecast.BuildProfiles(derived)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteProfiles(&buf, FormatCSV, profiles); err != nil {
		t.Fatalf("WriteProfiles: %v", err)
	}
	want := "days_prior,day_of_week,forecast_remaining_demand,average_booking_rate,samples\n" +
		"0,Friday,0,1,1\n" +
		"1,Friday,30,0.25,1\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteProfiles() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteExclusions(t *testing.T) {
	excluded := []forecast.Exclusion{
		{
			Record: models.DerivedRecord{BookingRecord: models.BookingRecord{
				DepartureDate: models.NewDate(2012, time.June, 16),
				BookingDate:   models.NewDate(2012, time.June, 15),
				Line:          4,
			}},
			Reason: forecast.ReasonProfileMiss,
		},
	}

	var buf bytes.Buffer
	if err := WriteExclusions(&buf, FormatCSV, excluded); err != nil {
		t.Fatalf("WriteExclusions: %v", err)
	}
	want := "departure_date,booking_date,line,reason\n2012-06-16,2012-06-15,4,profile_miss\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteExclusions() = %q, want %q", got, want)
	}

	buf.Reset()
	if err := WriteExclusions(&buf, FormatCSV, nil); err != nil || buf.Len() != 0 {
		t.Errorf("WriteExclusions(nil) wrote %q, err %v", buf.String(), err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "csv"} {
		if f, err := ParseFormat(s); err != nil || string(f) != s {
			t.Errorf("ParseFormat(%q) = %q, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("json"); err == nil {
		t.Error("ParseFormat(json) should fail")
	}
}
