package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/lox/bookingforecast/internal/models"
)

const (
	ColDepartureDate = "departure_date"
	ColBookingDate   = "booking_date"
	ColCumBookings   = "cum_bookings"
	ColNaiveForecast = "naive_forecast"
)

var (
	trainingColumns   = []string{ColDepartureDate, ColBookingDate, ColCumBookings}
	validationColumns = []string{ColDepartureDate, ColBookingDate, ColCumBookings, ColNaiveForecast}
)

var (
	ErrEmptyInput      = errors.New("no header row")
	ErrMissingColumn   = errors.New("missing required column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrInvalidRecord   = errors.New("invalid record")
)

// InputError describes malformed input. Line and Column are set when known.
type InputError struct {
	File   string
	Line   int
	Column string
	Err    error
}

func (e *InputError) Error() string {
	var b strings.Builder
	b.WriteString(e.File)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %s", e.Column)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

type rawRecord struct {
	DepartureDate string `csv:"departure_date"`
	BookingDate   string `csv:"booking_date"`
	CumBookings   string `csv:"cum_bookings"`
	NaiveForecast string `csv:"naive_forecast"`
}

func LoadTraining(path string) ([]models.BookingRecord, error) {
	return load(path, ReadTraining)
}

func LoadValidation(path string) ([]models.BookingRecord, error) {
	return load(path, ReadValidation)
}

func load(path string, read func(string, io.Reader) ([]models.BookingRecord, error)) ([]models.BookingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return read(path, f)
}

// ReadTraining decodes a training table. Extra columns are ignored.
func ReadTraining(name string, r io.Reader) ([]models.BookingRecord, error) {
	return decode(name, r, trainingColumns, false)
}

// ReadValidation decodes a validation table, which also needs naive_forecast.
func ReadValidation(name string, r io.Reader) ([]models.BookingRecord, error) {
	return decode(name, r, validationColumns, true)
}

func decode(name string, r io.Reader, required []string, withNaive bool) ([]models.BookingRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &InputError{File: name, Err: ErrEmptyInput}
	}
	if err != nil {
		return nil, csvError(name, err)
	}
	header = normaliseHeader(header)

	if col := duplicateColumn(header); col != "" {
		return nil, &InputError{File: name, Line: 1, Column: col, Err: ErrDuplicateColumn}
	}
	if col := missingColumn(header, required); col != "" {
		return nil, &InputError{File: name, Line: 1, Column: col, Err: ErrMissingColumn}
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, &InputError{File: name, Err: fmt.Errorf("create decoder: %w", err)}
	}

	var records []models.BookingRecord
	for {
		var raw rawRecord
		if err := dec.Decode(&raw); err == io.EOF {
			break
		} else if err != nil {
			return nil, csvError(name, err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRecord(raw, withNaive)
		if err != nil {
			if ie, ok := err.(*InputError); ok {
				ie.File, ie.Line = name, line
				return nil, ie
			}
			return nil, &InputError{File: name, Line: line, Err: err}
		}
		rec.Line = line

		if flags := ValidateRecord(&rec); len(flags) > 0 {
			return nil, &InputError{
				File: name,
				Line: line,
				Err:  fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(flags, ", ")),
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRecord(raw rawRecord, withNaive bool) (models.BookingRecord, error) {
	var rec models.BookingRecord
	var err error

	if rec.DepartureDate, err = models.ParseDate(raw.DepartureDate); err != nil {
		return rec, &InputError{Column: ColDepartureDate, Err: err}
	}
	if rec.BookingDate, err = models.ParseDate(raw.BookingDate); err != nil {
		return rec, &InputError{Column: ColBookingDate, Err: err}
	}
	if rec.CumBookings, err = parseNumber(raw.CumBookings); err != nil {
		return rec, &InputError{Column: ColCumBookings, Err: err}
	}
	if withNaive {
		if rec.NaiveForecast, err = parseNumber(raw.NaiveForecast); err != nil {
			return rec, &InputError{Column: ColNaiveForecast, Err: err}
		}
	}
	return rec, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func missingColumn(header, required []string) string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range required {
		if !present[col] {
			return col
		}
	}
	return ""
}

func duplicateColumn(header []string) string {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if h == "" {
			continue
		}
		if seen[h] {
			return h
		}
		seen[h] = true
	}
	return ""
}

func normaliseHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &InputError{File: name, Line: pe.Line, Err: pe.Err}
	}
	return &InputError{File: name, Err: err}
}
