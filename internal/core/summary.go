package core

import "github.com/shopspring/decimal"

// UncategorizedBucket is the sentinel category for records without one.
const UncategorizedBucket = "Uncategorized"

// SpentBreakdown splits a spending total into its sources.
type SpentBreakdown struct {
	Total         decimal.Decimal
	Transactions  decimal.Decimal
	Subscriptions decimal.Decimal
}

// CategorySpend is one bucket of the per-category breakdown.
type CategorySpend struct {
	Category      string
	Total         decimal.Decimal
	Transactions  decimal.Decimal
	Subscriptions decimal.Decimal
	Percentage    float64 // share of the grand total, one decimal
}

// CategoryBreakdown is the full per-category spending report, ordered by
// descending total.
type CategoryBreakdown struct {
	Categories        []CategorySpend
	Total             decimal.Decimal
	TransactionTotal  decimal.Decimal
	SubscriptionTotal decimal.Decimal
}

// BudgetSpent is the ledger-independent spend estimate for one budget's
// period and category.
type BudgetSpent struct {
	Transactions  decimal.Decimal
	Subscriptions decimal.Decimal
	Total         decimal.Decimal
}

// PeriodTotals summarizes income against spending for one window.
type PeriodTotals struct {
	Income           decimal.Decimal
	Spent            SpentBreakdown
	Remaining        decimal.Decimal
	PercentRemaining float64 // clamped to [0, 100]; 0 when income is 0
	IsNegative       bool
}

// IncomeSummary combines all-time and current-month totals.
type IncomeSummary struct {
	AllTime    PeriodTotals
	ThisMonth  PeriodTotals
	MonthStart Date
	MonthEnd   Date
}

// SourceIncome is income aggregated by source, ordered by descending total.
type SourceIncome struct {
	Source string
	Total  decimal.Decimal
}

// MonthlyIncome is a 12-slot income series for one year.
type MonthlyIncome struct {
	Year   int
	Months [12]decimal.Decimal
	Total  decimal.Decimal
}

// DashboardSummary is the aggregate behind the main dashboard view.
type DashboardSummary struct {
	Period     Period
	Range      Range
	Income     decimal.Decimal
	Spending   SpentBreakdown
	Remaining  decimal.Decimal
	Categories CategoryBreakdown
}

// SubscriptionSummary counts subscriptions and normalizes their cost to a
// monthly figure (daily x30, weekly x4, monthly as-is, yearly /12).
type SubscriptionSummary struct {
	ActiveCount    int
	InactiveCount  int
	MonthlyCost    decimal.Decimal
	ThisMonthTotal decimal.Decimal
}

// PaymentTotals sums posted ledger payments for a period, split by the
// status of the owning subscription.
type PaymentTotals struct {
	ActiveTotal   decimal.Decimal
	ActiveCount   int
	InactiveTotal decimal.Decimal
	InactiveCount int
	Total         decimal.Decimal
	PaymentCount  int
}
