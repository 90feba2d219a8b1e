package core

import (
	"fmt"
	"time"
)

// Date is a civil date with day precision. The wrapped time is always
// midnight UTC so dates compare cleanly regardless of where they came from.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its civil date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// AddMonths advances the date by n calendar months, clamping the day to the
// length of the target month (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	year := d.Year()
	month := d.Month() + n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	day := min(d.Day(), DaysInMonth(year, month))
	return NewDate(year, month, day)
}

// AddYears advances the date by n years, clamping Feb 29 to Feb 28 when the
// target year is not a leap year.
func (d Date) AddYears(n int) Date {
	year := d.Year() + n
	day := min(d.Day(), DaysInMonth(year, d.Month()))
	return NewDate(year, d.Month(), day)
}

// DaysUntil returns the inclusive day count from d through end.
// Returns 0 if end is before d.
func (d Date) DaysUntil(end Date) int {
	days := int(end.Sub(d.Time).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if a.After(b.Time) {
		return a
	}
	return b
}

// MinDate returns the earlier of two dates.
func MinDate(a, b Date) Date {
	if a.Before(b.Time) {
		return a
	}
	return b
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Range is an inclusive date range. A zero Start or End means that side is
// unbounded, which is how the "total" period is represented.
type Range struct {
	Start Date
	End   Date
}

// Contains reports whether the date falls inside the range, treating zero
// bounds as open-ended.
func (r Range) Contains(d Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start.Time) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End.Time) {
		return false
	}
	return true
}

// Overlaps reports whether [start, end] intersects the range. Used for
// income records, which cover a period rather than a single date.
func (r Range) Overlaps(start, end Date) bool {
	if !r.Start.IsZero() && end.Before(r.Start.Time) {
		return false
	}
	if !r.End.IsZero() && start.After(r.End.Time) {
		return false
	}
	return true
}
