package models

import (
	"fmt"
	"time"
)

// Month is a calendar year-month, the grouping key of every monthly figure.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf truncates a date to its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "YYYY-MM" label.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText renders the month as YYYY-MM in JSON and YAML.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a YYYY-MM label.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// AddMonths returns the month n calendar months later (or earlier when n < 0).
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Start().AddDate(0, n, 0))
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Start returns midnight UTC of the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the number of calendar months from m to other.
func (m Month) MonthsBetween(other Month) int {
	return (other.Year-m.Year)*12 + int(other.Month) - int(m.Month)
}
