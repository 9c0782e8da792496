package core

import (
	"fmt"
	"time"
)

// DateLayout is the canonical on-disk form of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component. The zero value means
// "no date". All dates are anchored to UTC midnight.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: bad date %q", ErrValidation, s)
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD. The zero date renders empty.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths returns the date n calendar months later, clamping the day of
// month to the last valid day of the target month. Jan 31 + 1 month is Feb 28
// (Feb 29 in leap years), never Mar 2/3 like time.AddDate would produce.
func (d Date) AddMonths(n int) Date {
	y, m, day := d.Date()
	m += time.Month(n)
	for m > 12 {
		m -= 12
		y++
	}
	for m < 1 {
		m += 12
		y--
	}
	if last := lastDayOfMonth(y, m); day > last {
		day = last
	}
	return NewDate(y, int(m), day)
}

// AddYears returns the date n years later with the same day clamping
// (Feb 29 on a non-leap target year becomes Feb 28).
func (d Date) AddYears(n int) Date {
	return d.AddMonths(n * 12)
}

// DaysBetween returns the whole days from d to other (positive if other is
// later).
func (d Date) DaysBetween(other Date) int {
	return int(other.Sub(d.Time) / (24 * time.Hour))
}

// BeforeDate reports whether d falls on an earlier calendar day than other.
func (d Date) BeforeDate(other Date) bool {
	return d.Time.Before(other.Time)
}

// AfterDate reports whether d falls on a later calendar day than other.
func (d Date) AfterDate(other Date) bool {
	return d.Time.After(other.Time)
}

// SameDay reports whether two dates are the same calendar day.
func (d Date) SameDay(other Date) bool {
	return d.Time.Equal(other.Time)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
