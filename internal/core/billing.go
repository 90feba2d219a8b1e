package core

import (
	"github.com/shopspring/decimal"
)

// maxBillingSteps bounds billing-date walks so a malformed cadence can
// never loop forever.
const maxBillingSteps = 1000

var seven = decimal.NewFromInt(7)

// NextBillingDate steps one billing cycle forward from the given date.
//
//	daily   -> +1 day
//	weekly  -> +7 days
//	monthly -> next calendar month, day clamped to min(billingDay, month length)
//	yearly  -> same month/day next year, day clamped
//
// An unrecognized cadence behaves like monthly; callers validate cadences
// on write paths, this keeps read paths resilient to bad historical data.
func NextBillingDate(from Date, cycle Cadence, billingDay int) Date {
	switch cycle {
	case Daily:
		return from.AddDays(1)
	case Weekly:
		return from.AddDays(7)
	case Yearly:
		return from.AddYears(1)
	default: // monthly and degenerate cadences
		year, month := from.Year(), from.Month()+1
		if month > 12 {
			month = 1
			year++
		}
		if billingDay < 1 {
			billingDay = 1
		}
		day := min(billingDay, DaysInMonth(year, month))
		return NewDate(year, month, day)
	}
}

// firstBillingDate returns the first occurrence on or after start.
// For monthly cadence this is the anchor day within the start month when it
// has not passed yet; daily, weekly and yearly cadences anchor on the start
// date itself.
func firstBillingDate(start Date, cycle Cadence, billingDay int) Date {
	if cycle != Monthly {
		return start
	}
	if billingDay < 1 {
		billingDay = 1
	}
	day := min(billingDay, DaysInMonth(start.Year(), start.Month()))
	d := NewDate(start.Year(), start.Month(), day)
	if d.Before(start.Time) {
		return NextBillingDate(d, cycle, billingDay)
	}
	return d
}

// BillingDates walks all billing dates from a subscription's start through
// upTo, inclusive. Used by the payment ledger generator. The walk hard-stops
// after maxBillingSteps dates.
func BillingDates(start, upTo Date, cycle Cadence, billingDay int) []Date {
	var dates []Date
	current := firstBillingDate(start, cycle, billingDay)
	for !current.After(upTo.Time) {
		dates = append(dates, current)
		if len(dates) >= maxBillingSteps {
			break
		}
		current = NextBillingDate(current, cycle, billingDay)
	}
	return dates
}

// BillingDatesAfter walks the billing dates strictly after last, through
// upTo inclusive, keeping last's cadence phase. The ledger generator uses
// it to resume from the latest posted payment, so the per-walk step bound
// caps one run rather than the subscription's lifetime.
func BillingDatesAfter(last, upTo Date, cycle Cadence, billingDay int) []Date {
	var dates []Date
	current := NextBillingDate(last, cycle, billingDay)
	for !current.After(upTo.Time) {
		dates = append(dates, current)
		if len(dates) >= maxBillingSteps {
			break
		}
		current = NextBillingDate(current, cycle, billingDay)
	}
	return dates
}

// Occurrences returns the billing dates of a subscription that fall inside
// [rangeStart, rangeEnd], ascending. Returns nil when the subscription's
// lifetime does not intersect the range.
func Occurrences(sub Subscription, rangeStart, rangeEnd Date) []Date {
	effStart, effEnd, ok := effectiveWindow(sub, rangeStart, rangeEnd)
	if !ok {
		return nil
	}
	var out []Date
	for _, d := range BillingDates(sub.StartDate, effEnd, sub.BillingCycle, sub.BillingDay) {
		if !d.Before(effStart.Time) {
			out = append(out, d)
		}
	}
	return out
}

// ProratedAmount computes what a subscription costs within
// [rangeStart, rangeEnd], given its cadence and unit amount.
//
//	daily   -> amount x day count
//	weekly  -> amount x day count / 7 (fractional weeks allowed)
//	monthly -> amount x number of months whose clamped anchor day falls in
//	           the window, floored at one cycle
//	yearly  -> analogous per-year anchor on the start date's month/day,
//	           clamped to 28 when invalid, same floor
//
// The at-least-one floor for monthly/yearly is a modeling choice: a
// subscription active at all inside the window is billed for at least one
// full cycle, so boundary overlaps never produce a zero charge.
func ProratedAmount(sub Subscription, rangeStart, rangeEnd Date) decimal.Decimal {
	effStart, effEnd, ok := effectiveWindow(sub, rangeStart, rangeEnd)
	if !ok {
		return decimal.Zero
	}

	switch sub.BillingCycle {
	case Daily:
		days := effStart.DaysUntil(effEnd)
		return sub.Amount.Mul(decimal.NewFromInt(int64(days)))

	case Weekly:
		days := effStart.DaysUntil(effEnd)
		return sub.Amount.Mul(decimal.NewFromInt(int64(days))).Div(seven)

	case Yearly:
		years := 0
		for year := effStart.Year(); year <= effEnd.Year(); year++ {
			anchor := yearlyAnchor(year, sub.StartDate)
			if !anchor.Before(effStart.Time) && !anchor.After(effEnd.Time) {
				years++
			}
		}
		return sub.Amount.Mul(decimal.NewFromInt(int64(max(1, years))))

	default: // monthly and degenerate cadences
		billingDay := sub.BillingDay
		if billingDay < 1 {
			billingDay = 1
		}
		months := 0
		cur := NewDate(effStart.Year(), effStart.Month(), 1)
		for !cur.After(effEnd.Time) {
			day := min(billingDay, DaysInMonth(cur.Year(), cur.Month()))
			anchor := NewDate(cur.Year(), cur.Month(), day)
			if !anchor.Before(effStart.Time) && !anchor.After(effEnd.Time) {
				months++
			}
			cur = cur.AddMonths(1)
		}
		return sub.Amount.Mul(decimal.NewFromInt(int64(max(1, months))))
	}
}

// effectiveWindow intersects the subscription's lifetime with the query
// range. ok is false when they do not overlap.
func effectiveWindow(sub Subscription, rangeStart, rangeEnd Date) (start, end Date, ok bool) {
	if sub.StartDate.After(rangeEnd.Time) {
		return Date{}, Date{}, false
	}
	if !sub.EndDate.IsZero() && sub.EndDate.Before(rangeStart.Time) {
		return Date{}, Date{}, false
	}
	start = MaxDate(sub.StartDate, rangeStart)
	end = rangeEnd
	if !sub.EndDate.IsZero() {
		end = MinDate(sub.EndDate, rangeEnd)
	}
	return start, end, true
}

// yearlyAnchor is the billing date of a yearly subscription in the given
// year: the start date's month and day, clamped to 28 when that day does
// not exist (Feb 29 in a non-leap year).
func yearlyAnchor(year int, start Date) Date {
	day := start.Day()
	if day > DaysInMonth(year, start.Month()) {
		day = 28
	}
	return NewDate(year, start.Month(), day)
}
