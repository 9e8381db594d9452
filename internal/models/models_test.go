package models

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"iso", "2012-06-01", NewDate(2012, time.June, 1), false},
		{"us four digit year", "6/1/2012", NewDate(2012, time.June, 1), false},
		{"us two digit year", "6/1/12", NewDate(2012, time.June, 1), false},
		{"timestamp", "2012-06-01 00:00:00", NewDate(2012, time.June, 1), false},
		{"timestamp with time of day", "2012-06-01 17:45:00", NewDate(2012, time.June, 1), false},
		{"iso timestamp", "2012-06-01T08:00:00", NewDate(2012, time.June, 1), false},
		{"surrounding space", " 2012-06-01 ", NewDate(2012, time.June, 1), false},
		{"empty", "", Date{}, true},
		{"garbage", "yesterday", Date{}, true},
		{"impossible day", "2012-02-30", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	dep := NewDate(2012, time.March, 26)

	tests := []struct {
		name    string
		booking Date
		want    int
	}{
		{"same day", NewDate(2012, time.March, 26), 0},
		{"one day", NewDate(2012, time.March, 25), 1},
		{"across month", NewDate(2012, time.February, 26), 29},
		{"after departure", NewDate(2012, time.March, 28), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.booking.DaysUntil(dep); got != tt.want {
				t.Errorf("DaysUntil = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysUntil_Centuries(t *testing.T) {
	from := NewDate(1900, time.January, 1)
	to := NewDate(2400, time.January, 1)

	// 500 years with 121 leap days.
	if got := from.DaysUntil(to); got != 182621 {
		t.Errorf("DaysUntil = %d, want 182621", got)
	}
	if got := to.DaysUntil(from); got != -182621 {
		t.Errorf("DaysUntil reversed = %d, want -182621", got)
	}
}

func TestProfileKeyLess(t *testing.T) {
	a := ProfileKey{DaysPrior: 0, DayOfWeek: time.Saturday}
	b := ProfileKey{DaysPrior: 1, DayOfWeek: time.Sunday}
	c := ProfileKey{DaysPrior: 1, DayOfWeek: time.Monday}

	if !a.Less(b) {
		t.Errorf("%v should sort before %v", a, b)
	}
	if !b.Less(c) {
		t.Errorf("%v should sort before %v", b, c)
	}
	if c.Less(b) {
		t.Errorf("%v should not sort before %v", c, b)
	}
	if got := c.String(); got != "1/Monday" {
		t.Errorf("String() = %q, want 1/Monday", got)
	}
}
