package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func monthlySub(amount string, billingDay int, start Date) Subscription {
	return Subscription{
		Amount:       dec(amount),
		BillingCycle: Monthly,
		BillingDay:   billingDay,
		StartDate:    start,
		Status:       StatusActive,
	}
}

func TestNextBillingDate(t *testing.T) {
	cases := []struct {
		name       string
		from       Date
		cycle      Cadence
		billingDay int
		want       Date
	}{
		{"daily", NewDate(2024, 1, 15), Daily, 1, NewDate(2024, 1, 16)},
		{"weekly", NewDate(2024, 1, 15), Weekly, 1, NewDate(2024, 1, 22)},
		{"monthly mid-month", NewDate(2024, 1, 15), Monthly, 15, NewDate(2024, 2, 15)},
		{"monthly clamps to february", NewDate(2024, 1, 31), Monthly, 31, NewDate(2024, 2, 29)},
		{"monthly december wraps year", NewDate(2024, 12, 10), Monthly, 10, NewDate(2025, 1, 10)},
		{"yearly", NewDate(2024, 3, 15), Yearly, 15, NewDate(2025, 3, 15)},
		{"yearly clamps leap day", NewDate(2024, 2, 29), Yearly, 29, NewDate(2025, 2, 28)},
		{"unknown cadence behaves like monthly", NewDate(2024, 1, 15), Cadence("biweekly"), 15, NewDate(2024, 2, 15)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextBillingDate(tc.from, tc.cycle, tc.billingDay)
			if !got.Equal(tc.want.Time) {
				t.Errorf("NextBillingDate() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestBillingDates_MonthEndClamping(t *testing.T) {
	// Monthly subscription starting mid-January with anchor day 31: the
	// clamped anchor lands on Jan 31, leap Feb 29, Mar 31, Apr 30.
	got := BillingDates(NewDate(2024, 1, 15), NewDate(2024, 4, 30), Monthly, 31)

	want := []Date{
		NewDate(2024, 1, 31),
		NewDate(2024, 2, 29),
		NewDate(2024, 3, 31),
		NewDate(2024, 4, 30),
	}
	if len(got) != len(want) {
		t.Fatalf("BillingDates() returned %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i].Time) {
			t.Errorf("dates[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBillingDates_StepBound(t *testing.T) {
	// A daily walk over three years would exceed the safety bound; the
	// walk must hard-stop instead of looping.
	got := BillingDates(NewDate(2020, 1, 1), NewDate(2023, 1, 1), Daily, 1)
	if len(got) != 1000 {
		t.Errorf("expected walk capped at 1000 dates, got %d", len(got))
	}
}

func TestBillingDatesAfter_KeepsCadencePhase(t *testing.T) {
	// Resuming a weekly walk from a posted Monday must continue on
	// Mondays, not re-anchor on the day after.
	got := BillingDatesAfter(NewDate(2024, 6, 3), NewDate(2024, 6, 24), Weekly, 1)

	want := []Date{
		NewDate(2024, 6, 10),
		NewDate(2024, 6, 17),
		NewDate(2024, 6, 24),
	}
	if len(got) != len(want) {
		t.Fatalf("BillingDatesAfter() returned %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i].Time) {
			t.Errorf("dates[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBillingDatesAfter_MonthEndClamping(t *testing.T) {
	// Resuming from a clamped leap-February anchor returns to the real
	// anchor day in longer months.
	got := BillingDatesAfter(NewDate(2024, 2, 29), NewDate(2024, 4, 30), Monthly, 31)

	want := []Date{
		NewDate(2024, 3, 31),
		NewDate(2024, 4, 30),
	}
	if len(got) != len(want) {
		t.Fatalf("BillingDatesAfter() returned %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i].Time) {
			t.Errorf("dates[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestOccurrences_OutsideLifetime(t *testing.T) {
	sub := monthlySub("10", 1, NewDate(2024, 6, 1))

	if got := Occurrences(sub, NewDate(2024, 1, 1), NewDate(2024, 5, 31)); got != nil {
		t.Errorf("expected no occurrences before start, got %v", got)
	}

	sub.EndDate = NewDate(2024, 8, 31)
	if got := Occurrences(sub, NewDate(2024, 9, 1), NewDate(2024, 12, 31)); got != nil {
		t.Errorf("expected no occurrences after end, got %v", got)
	}
}

func TestProratedAmount_Daily(t *testing.T) {
	sub := Subscription{
		Amount:       dec("2.50"),
		BillingCycle: Daily,
		BillingDay:   1,
		StartDate:    NewDate(2024, 6, 1),
		Status:       StatusActive,
	}

	got := ProratedAmount(sub, NewDate(2024, 6, 1), NewDate(2024, 6, 10))
	if !got.Equal(dec("25")) {
		t.Errorf("ProratedAmount() = %s, want 25", got)
	}
}

func TestProratedAmount_WeeklyFractional(t *testing.T) {
	sub := Subscription{
		Amount:       dec("7"),
		BillingCycle: Weekly,
		BillingDay:   1,
		StartDate:    NewDate(2024, 6, 1),
		Status:       StatusActive,
	}

	// 10 days = 10/7 weeks
	got := ProratedAmount(sub, NewDate(2024, 6, 1), NewDate(2024, 6, 10))
	if !got.Equal(dec("10")) {
		t.Errorf("ProratedAmount() = %s, want 10", got)
	}
}

func TestProratedAmount_Additivity(t *testing.T) {
	// For daily and weekly cadence, splitting a range into two adjoining
	// sub-ranges must not change the total.
	cases := []struct {
		name  string
		cycle Cadence
	}{
		{"daily", Daily},
		{"weekly", Weekly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := Subscription{
				Amount:       dec("7.70"),
				BillingCycle: tc.cycle,
				BillingDay:   1,
				StartDate:    NewDate(2024, 1, 1),
				Status:       StatusActive,
			}
			whole := ProratedAmount(sub, NewDate(2024, 3, 1), NewDate(2024, 5, 20))
			left := ProratedAmount(sub, NewDate(2024, 3, 1), NewDate(2024, 4, 10))
			right := ProratedAmount(sub, NewDate(2024, 4, 11), NewDate(2024, 5, 20))
			if !whole.Equal(left.Add(right)) {
				t.Errorf("%s + %s != %s", left, right, whole)
			}
		})
	}
}

func TestProratedAmount_MonthlyFloor(t *testing.T) {
	sub := monthlySub("15", 1, NewDate(2024, 1, 1))

	// Window contains no anchor day (the 1st) at all, yet the subscription
	// is active inside it: floored at one cycle.
	got := ProratedAmount(sub, NewDate(2024, 6, 2), NewDate(2024, 6, 20))
	if !got.Equal(dec("15")) {
		t.Errorf("ProratedAmount() = %s, want floor of one cycle (15)", got)
	}

	// Three anchors inside the window.
	got = ProratedAmount(sub, NewDate(2024, 6, 1), NewDate(2024, 8, 31))
	if !got.Equal(dec("45")) {
		t.Errorf("ProratedAmount() = %s, want 45", got)
	}
}

func TestProratedAmount_YearlyLeapAnchor(t *testing.T) {
	sub := Subscription{
		Amount:       dec("120"),
		BillingCycle: Yearly,
		BillingDay:   1,
		StartDate:    NewDate(2024, 2, 29),
		Status:       StatusActive,
	}

	// 2025 is not a leap year: the anchor clamps to Feb 28.
	got := ProratedAmount(sub, NewDate(2025, 2, 1), NewDate(2025, 3, 1))
	if !got.Equal(dec("120")) {
		t.Errorf("ProratedAmount() = %s, want 120", got)
	}

	occ := Occurrences(sub, NewDate(2025, 1, 1), NewDate(2025, 12, 31))
	if len(occ) != 1 || !occ[0].Equal(NewDate(2025, 2, 28).Time) {
		t.Errorf("Occurrences() = %v, want [2025-02-28]", occ)
	}
}

func TestProratedAmount_ZeroOutsideWindow(t *testing.T) {
	sub := monthlySub("15", 1, NewDate(2024, 6, 1))
	sub.EndDate = NewDate(2024, 6, 30)

	got := ProratedAmount(sub, NewDate(2024, 7, 1), NewDate(2024, 7, 31))
	if !got.IsZero() {
		t.Errorf("ProratedAmount() = %s, want 0 when lifetime misses range", got)
	}
}
