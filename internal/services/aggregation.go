package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// AggregationStore supplies the plain records the aggregation engine works
// on. Stores filter by owner and date range only; category matching and
// all arithmetic happen here, in one place.
type AggregationStore interface {
	ListTransactions(ctx context.Context, userID int64, r core.Range) ([]core.Transaction, error)
	ListPaymentDetails(ctx context.Context, userID int64, r core.Range) ([]core.PaymentDetail, error)
	ListSubscriptions(ctx context.Context, userID int64, statuses ...core.SubscriptionStatus) ([]core.Subscription, error)
	ListIncomes(ctx context.Context, userID int64, r core.Range) ([]core.Income, error)
}

// Aggregator combines transactions, posted subscription payments and
// incomes into period-bounded totals. Every method builds its result from
// scratch per call; nothing is cached or shared between calls.
type Aggregator struct {
	store AggregationStore
}

func NewAggregator(store AggregationStore) *Aggregator {
	return &Aggregator{store: store}
}

// categoryMatches is a case-insensitive category comparison. An empty
// filter matches everything.
func categoryMatches(filter, category string) bool {
	if filter == "" {
		return true
	}
	return strings.EqualFold(filter, category)
}

// TotalSpent sums spending inside the range, split into transaction and
// subscription subtotals. The subscription side sums posted ledger
// payments of active subscriptions; the ledger is the source of truth
// once generated, it is never recomputed from the billing calendar here.
func (a *Aggregator) TotalSpent(ctx context.Context, userID int64, r core.Range, category string) (core.SpentBreakdown, error) {
	transactions, err := a.store.ListTransactions(ctx, userID, r)
	if err != nil {
		return core.SpentBreakdown{}, fmt.Errorf("list transactions: %w", err)
	}

	txTotal := decimal.Zero
	for _, t := range transactions {
		if categoryMatches(category, t.Category) {
			txTotal = txTotal.Add(t.Amount)
		}
	}

	payments, err := a.store.ListPaymentDetails(ctx, userID, r)
	if err != nil {
		return core.SpentBreakdown{}, fmt.Errorf("list payments: %w", err)
	}

	subTotal := decimal.Zero
	for _, p := range payments {
		if p.Status != core.StatusActive {
			continue
		}
		if categoryMatches(category, p.Category) {
			subTotal = subTotal.Add(p.Payment.Amount)
		}
	}

	return core.SpentBreakdown{
		Total:         txTotal.Add(subTotal),
		Transactions:  txTotal,
		Subscriptions: subTotal,
	}, nil
}

// TotalIncome sums income records whose covered period overlaps the range.
func (a *Aggregator) TotalIncome(ctx context.Context, userID int64, r core.Range) (decimal.Decimal, error) {
	incomes, err := a.store.ListIncomes(ctx, userID, r)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list incomes: %w", err)
	}

	total := decimal.Zero
	for _, i := range incomes {
		total = total.Add(i.Amount)
	}
	return total, nil
}

// SpendingByCategory merges transaction and subscription-payment spending
// into per-category buckets, ordered by descending total. Records without
// a category land in the Uncategorized bucket. Percentages are shares of
// the grand total rounded to one decimal, 0 when the grand total is 0.
func (a *Aggregator) SpendingByCategory(ctx context.Context, userID int64, r core.Range) (core.CategoryBreakdown, error) {
	transactions, err := a.store.ListTransactions(ctx, userID, r)
	if err != nil {
		return core.CategoryBreakdown{}, fmt.Errorf("list transactions: %w", err)
	}
	payments, err := a.store.ListPaymentDetails(ctx, userID, r)
	if err != nil {
		return core.CategoryBreakdown{}, fmt.Errorf("list payments: %w", err)
	}

	type bucket struct {
		transactions  decimal.Decimal
		subscriptions decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	get := func(category string) *bucket {
		if category == "" {
			category = core.UncategorizedBucket
		}
		b, ok := buckets[category]
		if !ok {
			b = &bucket{transactions: decimal.Zero, subscriptions: decimal.Zero}
			buckets[category] = b
		}
		return b
	}

	for _, t := range transactions {
		b := get(t.Category)
		b.transactions = b.transactions.Add(t.Amount)
	}
	for _, p := range payments {
		b := get(p.Category)
		b.subscriptions = b.subscriptions.Add(p.Payment.Amount)
	}

	breakdown := core.CategoryBreakdown{
		Total:             decimal.Zero,
		TransactionTotal:  decimal.Zero,
		SubscriptionTotal: decimal.Zero,
	}
	for category, b := range buckets {
		total := b.transactions.Add(b.subscriptions)
		breakdown.Categories = append(breakdown.Categories, core.CategorySpend{
			Category:      category,
			Total:         total,
			Transactions:  b.transactions,
			Subscriptions: b.subscriptions,
		})
		breakdown.Total = breakdown.Total.Add(total)
		breakdown.TransactionTotal = breakdown.TransactionTotal.Add(b.transactions)
		breakdown.SubscriptionTotal = breakdown.SubscriptionTotal.Add(b.subscriptions)
	}

	for i := range breakdown.Categories {
		breakdown.Categories[i].Percentage = core.Percentage(breakdown.Categories[i].Total, breakdown.Total)
	}

	sort.Slice(breakdown.Categories, func(i, j int) bool {
		c := breakdown.Categories[i].Total.Cmp(breakdown.Categories[j].Total)
		if c != 0 {
			return c > 0
		}
		return breakdown.Categories[i].Category < breakdown.Categories[j].Category
	})

	return breakdown, nil
}

// BudgetSpent estimates spending against one budget over its own period
// and category: matching transactions plus the billing calendar's prorated
// amount for matching active subscriptions. This path is deliberately
// ledger-independent; a budget's category may not have generated payments
// yet.
func (a *Aggregator) BudgetSpent(ctx context.Context, budget core.Budget) (core.BudgetSpent, error) {
	window := core.Range{Start: budget.PeriodStart, End: budget.PeriodEnd}

	transactions, err := a.store.ListTransactions(ctx, budget.UserID, window)
	if err != nil {
		return core.BudgetSpent{}, fmt.Errorf("list transactions: %w", err)
	}

	txTotal := decimal.Zero
	for _, t := range transactions {
		if categoryMatches(budget.Category, t.Category) {
			txTotal = txTotal.Add(t.Amount)
		}
	}

	subs, err := a.store.ListSubscriptions(ctx, budget.UserID, core.StatusActive)
	if err != nil {
		return core.BudgetSpent{}, fmt.Errorf("list subscriptions: %w", err)
	}

	subTotal := decimal.Zero
	for _, sub := range subs {
		if !categoryMatches(budget.Category, sub.Category) {
			continue
		}
		subTotal = subTotal.Add(core.ProratedAmount(sub, budget.PeriodStart, budget.PeriodEnd))
	}

	return core.BudgetSpent{
		Transactions:  txTotal,
		Subscriptions: subTotal,
		Total:         txTotal.Add(subTotal),
	}, nil
}

// periodTotals assembles income-versus-spending figures for one window.
func (a *Aggregator) periodTotals(ctx context.Context, userID int64, r core.Range) (core.PeriodTotals, error) {
	spent, err := a.TotalSpent(ctx, userID, r, "")
	if err != nil {
		return core.PeriodTotals{}, err
	}
	income, err := a.TotalIncome(ctx, userID, r)
	if err != nil {
		return core.PeriodTotals{}, err
	}

	remaining := income.Sub(spent.Total)
	return core.PeriodTotals{
		Income:           income,
		Spent:            spent,
		Remaining:        remaining,
		PercentRemaining: core.ClampPercent(core.Percentage(remaining, income)),
		IsNegative:       remaining.IsNegative(),
	}, nil
}

// IncomeSummary reports all-time and current-month income against spend.
func (a *Aggregator) IncomeSummary(ctx context.Context, userID int64, now time.Time) (core.IncomeSummary, error) {
	month := core.CalendarRange(core.PeriodMonthly, now)

	allTime, err := a.periodTotals(ctx, userID, core.Range{})
	if err != nil {
		return core.IncomeSummary{}, err
	}
	thisMonth, err := a.periodTotals(ctx, userID, month)
	if err != nil {
		return core.IncomeSummary{}, err
	}

	return core.IncomeSummary{
		AllTime:    allTime,
		ThisMonth:  thisMonth,
		MonthStart: month.Start,
		MonthEnd:   month.End,
	}, nil
}

// IncomeBySource groups income by source, ordered by descending total.
func (a *Aggregator) IncomeBySource(ctx context.Context, userID int64, r core.Range) ([]core.SourceIncome, error) {
	incomes, err := a.store.ListIncomes(ctx, userID, r)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}

	totals := make(map[string]decimal.Decimal)
	for _, i := range incomes {
		totals[i.Source] = totals[i.Source].Add(i.Amount)
	}

	out := make([]core.SourceIncome, 0, len(totals))
	for source, total := range totals {
		out = append(out, core.SourceIncome{Source: source, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		c := out[i].Total.Cmp(out[j].Total)
		if c != 0 {
			return c > 0
		}
		return out[i].Source < out[j].Source
	})
	return out, nil
}

// MonthlyIncome builds the 12-slot income series for one year, keyed on
// the month the income was received.
func (a *Aggregator) MonthlyIncome(ctx context.Context, userID int64, year int) (core.MonthlyIncome, error) {
	r := core.Range{Start: core.NewDate(year, 1, 1), End: core.NewDate(year, 12, 31)}
	incomes, err := a.store.ListIncomes(ctx, userID, r)
	if err != nil {
		return core.MonthlyIncome{}, fmt.Errorf("list incomes: %w", err)
	}

	out := core.MonthlyIncome{Year: year, Total: decimal.Zero}
	for i := range out.Months {
		out.Months[i] = decimal.Zero
	}
	for _, inc := range incomes {
		if inc.DateReceived.Year() != year {
			continue
		}
		idx := inc.DateReceived.Month() - 1
		out.Months[idx] = out.Months[idx].Add(inc.Amount)
		out.Total = out.Total.Add(inc.Amount)
	}
	return out, nil
}

// DashboardSummary is the single call behind the dashboard view: spending
// breakdown, income, remaining and per-category buckets over the
// calendar-aligned bounds of the requested period.
func (a *Aggregator) DashboardSummary(ctx context.Context, userID int64, period core.Period, now time.Time) (core.DashboardSummary, error) {
	r := core.CalendarRange(period, now)

	spent, err := a.TotalSpent(ctx, userID, r, "")
	if err != nil {
		return core.DashboardSummary{}, err
	}
	income, err := a.TotalIncome(ctx, userID, r)
	if err != nil {
		return core.DashboardSummary{}, err
	}
	categories, err := a.SpendingByCategory(ctx, userID, r)
	if err != nil {
		return core.DashboardSummary{}, err
	}

	return core.DashboardSummary{
		Period:     period,
		Range:      r,
		Income:     income,
		Spending:   spent,
		Remaining:  income.Sub(spent.Total),
		Categories: categories,
	}, nil
}

// SubscriptionSummary counts subscriptions by status and normalizes the
// active ones to a monthly cost: daily x30, weekly x4, monthly as-is,
// yearly /12.
func (a *Aggregator) SubscriptionSummary(ctx context.Context, userID int64, now time.Time) (core.SubscriptionSummary, error) {
	subs, err := a.store.ListSubscriptions(ctx, userID)
	if err != nil {
		return core.SubscriptionSummary{}, fmt.Errorf("list subscriptions: %w", err)
	}

	summary := core.SubscriptionSummary{MonthlyCost: decimal.Zero}
	for _, sub := range subs {
		if !sub.IsActive() {
			summary.InactiveCount++
			continue
		}
		summary.ActiveCount++

		cadence, _ := core.CadenceOrDefault(string(sub.BillingCycle))
		switch cadence {
		case core.Daily:
			summary.MonthlyCost = summary.MonthlyCost.Add(sub.Amount.Mul(decimal.NewFromInt(30)))
		case core.Weekly:
			summary.MonthlyCost = summary.MonthlyCost.Add(sub.Amount.Mul(decimal.NewFromInt(4)))
		case core.Yearly:
			summary.MonthlyCost = summary.MonthlyCost.Add(sub.Amount.Div(decimal.NewFromInt(12)))
		default:
			summary.MonthlyCost = summary.MonthlyCost.Add(sub.Amount)
		}
	}

	month := core.CalendarRange(core.PeriodMonthly, now)
	spent, err := a.TotalSpent(ctx, userID, month, "")
	if err != nil {
		return core.SubscriptionSummary{}, err
	}
	summary.ThisMonthTotal = spent.Subscriptions

	return summary, nil
}

// PaymentsForPeriod totals posted payments inside a rolling period, split
// by the owning subscription's status.
func (a *Aggregator) PaymentsForPeriod(ctx context.Context, userID int64, period core.Period, now time.Time) (core.PaymentTotals, error) {
	r := core.ResolvePeriod(period, now)

	payments, err := a.store.ListPaymentDetails(ctx, userID, r)
	if err != nil {
		return core.PaymentTotals{}, fmt.Errorf("list payments: %w", err)
	}

	totals := core.PaymentTotals{
		ActiveTotal:   decimal.Zero,
		InactiveTotal: decimal.Zero,
		Total:         decimal.Zero,
	}
	activeSubs := make(map[int64]struct{})
	inactiveSubs := make(map[int64]struct{})

	for _, p := range payments {
		totals.Total = totals.Total.Add(p.Payment.Amount)
		totals.PaymentCount++
		if p.Status == core.StatusActive {
			totals.ActiveTotal = totals.ActiveTotal.Add(p.Payment.Amount)
			activeSubs[p.Payment.SubscriptionID] = struct{}{}
		} else {
			totals.InactiveTotal = totals.InactiveTotal.Add(p.Payment.Amount)
			inactiveSubs[p.Payment.SubscriptionID] = struct{}{}
		}
	}
	totals.ActiveCount = len(activeSubs)
	totals.InactiveCount = len(inactiveSubs)

	return totals, nil
}
