package models

import (
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

var dateLayouts = []string{
	dateFormat,
	"1/2/2006",
	"1/2/06",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Date is a calendar date at midnight UTC.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognised date %q", s)
}

func (d Date) String() string {
	return d.Format(dateFormat)
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the whole days from d to later. Negative if later is before d.
func (d Date) DaysUntil(later Date) int {
	return int(later.Unix()/secondsPerDay - d.Unix()/secondsPerDay)
}

type BookingRecord struct {
	DepartureDate Date
	BookingDate   Date
	CumBookings   float64
	NaiveForecast float64 // validation only
	Line          int     // source line, 0 if unknown
}

type ProfileKey struct {
	DaysPrior int
	DayOfWeek time.Weekday
}

func (k ProfileKey) String() string {
	return fmt.Sprintf("%d/%s", k.DaysPrior, k.DayOfWeek)
}

// Less orders keys by days prior, then Sunday..Saturday.
func (k ProfileKey) Less(o ProfileKey) bool {
	if k.DaysPrior != o.DaysPrior {
		return k.DaysPrior < o.DaysPrior
	}
	return k.DayOfWeek < o.DayOfWeek
}

type DerivedRecord struct {
	BookingRecord
	DaysPrior int
	DayOfWeek time.Weekday
}

func (r DerivedRecord) Key() ProfileKey {
	return ProfileKey{DaysPrior: r.DaysPrior, DayOfWeek: r.DayOfWeek}
}

type ForecastRecord struct {
	DerivedRecord
	FinalDemand             float64
	ForecastRemainingDemand float64
	AverageBookingRate      float64
	ForecastAdditive        float64
	ForecastMultiplicative  float64
	ErrorNaive              float64
	ErrorAdditive           float64
	ErrorMultiplicative     float64
}
