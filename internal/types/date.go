package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day, stored as 00:00 UTC of that day.
type Date time.Time

// NewDate returns a new Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day a time falls on, evaluated in UTC.
func DateOf(t time.Time) Date {
	year, month, day := t.UTC().Date()
	return NewDate(year, month, day)
}

// StartOfDay returns 00:00 UTC of the day t falls on.
func StartOfDay(t time.Time) time.Time {
	return time.Time(DateOf(t))
}

// DaysBefore returns 00:00 UTC of the day that lies the given number of days before now.
func DaysBefore(now time.Time, days int) time.Time {
	return StartOfDay(now).AddDate(0, 0, -days)
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	var d Date
	err := d.UnmarshalParam(strings.TrimSpace(s))
	return d, err
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return time.Time(d).Format(dateLayout)
}

// Time returns 00:00 UTC of the date.
func (d Date) Time() time.Time {
	return time.Time(d)
}

// MarshalJSON implements the json.Marshaler interface.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Accepts "YYYY-MM-DD" or an RFC3339 timestamp, of which only the UTC day is kept.
// null and the empty string clear the date.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		*d = Date{}
		return nil
	}

	return d.UnmarshalParam(value)
}

// UnmarshalParam implements gin's binding.BindUnmarshaler.
func (d *Date) UnmarshalParam(param string) error {
	for _, layout := range []string{dateLayout, time.RFC3339} {
		t, err := time.Parse(layout, param)
		if err == nil {
			*d = DateOf(t)
			return nil
		}
	}

	return fmt.Errorf("%q is not a date in YYYY-MM-DD format", param)
}

// Scan writes the value from the database.
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(v)
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into a date", value)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			*d = DateOf(t)
			return nil
		}
	}
	return fmt.Errorf("cannot scan %q into a date", s)
}

// Value returns the value for the SQL driver to write to the database.
// The zero date is stored as NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return time.Time(d), nil
}

// GormDataType defines the data type used by gorm for the type.
func (Date) GormDataType() string {
	return "date"
}

// IsZero reports if the date is the zero value.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date(time.Time(d).AddDate(0, 0, n))
}

// Before reports whether d is before e.
func (d Date) Before(e Date) bool {
	return time.Time(d).Before(time.Time(e))
}

// After reports whether d is after e.
func (d Date) After(e Date) bool {
	return time.Time(d).After(time.Time(e))
}

// Month returns the month the date falls in.
func (d Date) Month() Month {
	return MonthOf(time.Time(d))
}
