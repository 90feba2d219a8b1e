package core

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in    string
		want  Period
		known bool
	}{
		{"daily", PeriodDaily, true},
		{"WEEKLY", PeriodWeekly, true},
		{" monthly ", PeriodMonthly, true},
		{"yearly", PeriodYearly, true},
		{"total", PeriodTotal, true},
		{"quarterly", PeriodMonthly, false},
		{"", PeriodMonthly, false},
	}
	for _, tc := range cases {
		got, known := ParsePeriod(tc.in)
		if got != tc.want || known != tc.known {
			t.Errorf("ParsePeriod(%q) = (%s, %v), want (%s, %v)", tc.in, got, known, tc.want, tc.known)
		}
	}
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	today := NewDate(2024, 6, 15)

	cases := []struct {
		name  string
		p     Period
		start Date
		end   Date
	}{
		{"daily is today only", PeriodDaily, today, today},
		{"weekly is last 7 days", PeriodWeekly, NewDate(2024, 6, 8), today},
		{"monthly is a rolling 30-day window", PeriodMonthly, NewDate(2024, 5, 16), today},
		{"yearly is last 365 days", PeriodYearly, NewDate(2023, 6, 16), today},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := ResolvePeriod(tc.p, now)
			if !r.Start.Equal(tc.start.Time) || !r.End.Equal(tc.end.Time) {
				t.Errorf("ResolvePeriod(%s) = [%s, %s], want [%s, %s]", tc.p, r.Start, r.End, tc.start, tc.end)
			}
		})
	}
}

func TestResolvePeriod_TotalIsUnbounded(t *testing.T) {
	r := ResolvePeriod(PeriodTotal, time.Now())
	if !r.Start.IsZero() || !r.End.IsZero() {
		t.Errorf("total period should be unbounded, got [%s, %s]", r.Start, r.End)
	}
	if !r.Contains(NewDate(1990, 1, 1)) || !r.Contains(NewDate(2100, 1, 1)) {
		t.Error("unbounded range should contain any date")
	}
}

func TestCalendarRange(t *testing.T) {
	// 2024-06-15 is a Saturday.
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		p     Period
		start Date
		end   Date
	}{
		{"daily", PeriodDaily, NewDate(2024, 6, 15), NewDate(2024, 6, 15)},
		{"weekly starts on monday", PeriodWeekly, NewDate(2024, 6, 10), NewDate(2024, 6, 16)},
		{"monthly is the calendar month", PeriodMonthly, NewDate(2024, 6, 1), NewDate(2024, 6, 30)},
		{"yearly is the calendar year", PeriodYearly, NewDate(2024, 1, 1), NewDate(2024, 12, 31)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := CalendarRange(tc.p, now)
			if !r.Start.Equal(tc.start.Time) || !r.End.Equal(tc.end.Time) {
				t.Errorf("CalendarRange(%s) = [%s, %s], want [%s, %s]", tc.p, r.Start, r.End, tc.start, tc.end)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: NewDate(2024, 6, 1), End: NewDate(2024, 6, 30)}

	if !r.Contains(NewDate(2024, 6, 1)) || !r.Contains(NewDate(2024, 6, 30)) {
		t.Error("range bounds are inclusive")
	}
	if r.Contains(NewDate(2024, 5, 31)) || r.Contains(NewDate(2024, 7, 1)) {
		t.Error("dates outside the range must not match")
	}
}

func TestRangeOverlaps(t *testing.T) {
	r := Range{Start: NewDate(2024, 6, 1), End: NewDate(2024, 6, 30)}

	if !r.Overlaps(NewDate(2024, 5, 1), NewDate(2024, 6, 1)) {
		t.Error("period touching the range start should overlap")
	}
	if r.Overlaps(NewDate(2024, 7, 1), NewDate(2024, 7, 31)) {
		t.Error("period after the range should not overlap")
	}
	if !(Range{}).Overlaps(NewDate(2024, 1, 1), NewDate(2024, 1, 2)) {
		t.Error("unbounded range overlaps everything")
	}
}
