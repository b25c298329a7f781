// Package types implements calendar types for MirrorBank.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Month is a calendar month in a specific year, anchored at the first day 00:00 UTC.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month in which a time occurs, evaluated in UTC.
func MonthOf(t time.Time) Month {
	year, month, _ := t.UTC().Date()
	return NewMonth(year, month)
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("%q is not a month in YYYY-MM format", s)
	}

	return MonthOf(t), nil
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// Time returns the first instant of the month.
func (m Month) Time() time.Time {
	return time.Time(m)
}

// MarshalJSON implements the json.Marshaler interface.
// Months are rendered as "YYYY-MM".
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
//
// Accepts "YYYY-MM", a full date or an RFC3339 timestamp. Everything
// but the year and month is discarded.
func (m *Month) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	return m.UnmarshalParam(value)
}

// UnmarshalParam implements gin's binding.BindUnmarshaler so that
// months can be bound from query strings.
func (m *Month) UnmarshalParam(param string) error {
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		t, err := time.Parse(layout, param)
		if err == nil {
			*m = MonthOf(t)
			return nil
		}
	}

	return fmt.Errorf("%q is not a month in YYYY-MM format", param)
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// Before reports whether the month m is before n.
func (m Month) Before(n Month) bool {
	return time.Time(m).Before(time.Time(n))
}

// Equal reports whether m and n represent the same month.
func (m Month) Equal(n Month) bool {
	return time.Time(m).Equal(time.Time(n))
}

// Window returns the half-open interval covering the whole month.
func (m Month) Window() Window {
	return Window{
		Start: time.Time(m),
		End:   time.Time(m.AddDate(0, 1)),
	}
}
