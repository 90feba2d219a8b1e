package core

import (
	"strings"
	"time"
)

// Period is a named filtering window. Rolling-window periods (ResolvePeriod)
// are meant for chart-style filtering; accounting paths (budgets, incomes)
// supply explicit period_start/period_end instead and never go through
// token resolution.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodTotal   Period = "total"
)

// ParsePeriod converts a string to a Period. Unknown or unparseable values
// fall back to monthly so dashboards stay usable on bad input; the second
// return value reports whether the input was recognized.
func ParsePeriod(s string) (Period, bool) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodDaily:
		return PeriodDaily, true
	case PeriodWeekly:
		return PeriodWeekly, true
	case PeriodMonthly:
		return PeriodMonthly, true
	case PeriodYearly:
		return PeriodYearly, true
	case PeriodTotal:
		return PeriodTotal, true
	default:
		return PeriodMonthly, false
	}
}

// ResolvePeriod maps a period token to a rolling window ending today.
//
//	daily   -> today only
//	weekly  -> last 7 days
//	monthly -> last 30 days (not calendar-month-to-date)
//	yearly  -> last 365 days
//	total   -> unbounded (zero Start and End)
//
// now is passed explicitly so callers inject a clock in tests.
func ResolvePeriod(p Period, now time.Time) Range {
	today := DateOf(now)
	switch p {
	case PeriodDaily:
		return Range{Start: today, End: today}
	case PeriodWeekly:
		return Range{Start: today.AddDays(-7), End: today}
	case PeriodMonthly:
		return Range{Start: today.AddDays(-30), End: today}
	case PeriodYearly:
		return Range{Start: today.AddDays(-365), End: today}
	case PeriodTotal:
		return Range{}
	default:
		return Range{Start: today.AddDays(-30), End: today}
	}
}

// CalendarRange maps a period token to calendar-aligned bounds: the current
// day, Monday-start week, calendar month, or calendar year. Dashboard
// summaries use this; chart filters use ResolvePeriod. Unknown tokens and
// "total" are unbounded.
func CalendarRange(p Period, now time.Time) Range {
	today := DateOf(now)
	switch p {
	case PeriodDaily:
		return Range{Start: today, End: today}
	case PeriodWeekly:
		// weekday with Monday as day 0
		offset := (int(now.Weekday()) + 6) % 7
		start := today.AddDays(-offset)
		return Range{Start: start, End: start.AddDays(6)}
	case PeriodMonthly:
		start := NewDate(today.Year(), today.Month(), 1)
		return Range{Start: start, End: start.AddMonths(1).AddDays(-1)}
	case PeriodYearly:
		return Range{
			Start: NewDate(today.Year(), 1, 1),
			End:   NewDate(today.Year(), 12, 31),
		}
	default:
		return Range{}
	}
}

// PeriodLabel returns a human-readable label for a period token.
func PeriodLabel(p Period) string {
	switch p {
	case PeriodDaily:
		return "Today"
	case PeriodWeekly:
		return "Last 7 Days"
	case PeriodMonthly:
		return "Last 30 Days"
	case PeriodYearly:
		return "Last Year"
	case PeriodTotal:
		return "All Time"
	default:
		return "Last 30 Days"
	}
}
