package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func seedJuneData(t *testing.T) (*memStore, *Aggregator) {
	t.Helper()
	store := newMemStore()

	store.addTransaction(core.Transaction{
		UserID:   1,
		Amount:   amt("50"),
		Category: "Food",
		Date:     core.NewDate(2024, 6, 5),
	})
	store.addTransaction(core.Transaction{
		UserID:   1,
		Amount:   amt("30"),
		Category: "transport",
		Date:     core.NewDate(2024, 6, 10),
	})
	store.addTransaction(core.Transaction{
		UserID: 1,
		Amount: amt("20"),
		Date:   core.NewDate(2024, 6, 12), // uncategorized
	})

	sub := store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Meal kit",
		Amount:       amt("20"),
		Category:     "Food",
		BillingCycle: core.Monthly,
		BillingDay:   1,
		StartDate:    core.NewDate(2024, 1, 1),
		Status:       core.StatusActive,
	})

	gen := NewLedgerGenerator(store, nil)
	_, err := gen.GenerateForSubscription(context.Background(), sub, core.NewDate(2024, 6, 30))
	require.NoError(t, err)

	return store, NewAggregator(store)
}

func june() core.Range {
	return core.Range{Start: core.NewDate(2024, 6, 1), End: core.NewDate(2024, 6, 30)}
}

func TestAggregator_TotalSpent(t *testing.T) {
	_, agg := seedJuneData(t)

	spent, err := agg.TotalSpent(context.Background(), 1, june(), "")
	require.NoError(t, err)

	assert.True(t, spent.Transactions.Equal(amt("100")), "transactions = %s", spent.Transactions)
	assert.True(t, spent.Subscriptions.Equal(amt("20")), "subscriptions = %s", spent.Subscriptions)
	assert.True(t, spent.Total.Equal(amt("120")), "total = %s", spent.Total)
}

func TestAggregator_TotalSpent_CategoryCaseInsensitive(t *testing.T) {
	_, agg := seedJuneData(t)

	spent, err := agg.TotalSpent(context.Background(), 1, june(), "FOOD")
	require.NoError(t, err)

	assert.True(t, spent.Transactions.Equal(amt("50")))
	assert.True(t, spent.Subscriptions.Equal(amt("20")))
	assert.True(t, spent.Total.Equal(amt("70")))
}

func TestAggregator_SpendingByCategory(t *testing.T) {
	_, agg := seedJuneData(t)

	breakdown, err := agg.SpendingByCategory(context.Background(), 1, june())
	require.NoError(t, err)

	// Food 70, transport 30, Uncategorized 20.
	require.Len(t, breakdown.Categories, 3)
	assert.Equal(t, "Food", breakdown.Categories[0].Category)
	assert.True(t, breakdown.Categories[0].Total.Equal(amt("70")))
	assert.Equal(t, "transport", breakdown.Categories[1].Category)
	assert.Equal(t, core.UncategorizedBucket, breakdown.Categories[2].Category)

	// Per-category totals must add up to the grand total.
	sum := decimal.Zero
	for _, c := range breakdown.Categories {
		sum = sum.Add(c.Total)
	}
	assert.True(t, sum.Equal(breakdown.Total), "category totals %s != grand total %s", sum, breakdown.Total)
	assert.True(t, breakdown.Total.Equal(amt("120")))

	assert.InDelta(t, 58.3, breakdown.Categories[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, breakdown.Categories[1].Percentage, 0.001)
	assert.InDelta(t, 16.7, breakdown.Categories[2].Percentage, 0.001)
}

func TestAggregator_SpendingByCategory_EmptyRange(t *testing.T) {
	store := newMemStore()
	agg := NewAggregator(store)

	breakdown, err := agg.SpendingByCategory(context.Background(), 1, june())
	require.NoError(t, err)

	assert.Empty(t, breakdown.Categories)
	assert.True(t, breakdown.Total.IsZero())
}

func TestAggregator_BudgetSpent_EndToEnd(t *testing.T) {
	store := newMemStore()
	store.addTransaction(core.Transaction{
		UserID:   1,
		Amount:   amt("50"),
		Category: "Food",
		Date:     core.NewDate(2024, 6, 5),
	})
	store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Meal kit",
		Amount:       amt("20"),
		Category:     "Food",
		BillingCycle: core.Monthly,
		BillingDay:   1,
		StartDate:    core.NewDate(2024, 1, 1),
		Status:       core.StatusActive,
	})

	agg := NewAggregator(store)
	budget := core.Budget{
		UserID:      1,
		Category:    "Food",
		Amount:      amt("300"),
		PeriodStart: core.NewDate(2024, 6, 1),
		PeriodEnd:   core.NewDate(2024, 6, 30),
	}

	// No ledger rows exist; the subscription side comes from proration.
	spent, err := agg.BudgetSpent(context.Background(), budget)
	require.NoError(t, err)

	assert.True(t, spent.Transactions.Equal(amt("50")), "transactions = %s", spent.Transactions)
	assert.True(t, spent.Subscriptions.Equal(amt("20")), "subscriptions = %s", spent.Subscriptions)
	assert.True(t, spent.Total.Equal(amt("70")), "total = %s", spent.Total)
}

func TestAggregator_TotalIncome_PeriodOverlap(t *testing.T) {
	store := newMemStore()
	store.addIncome(core.Income{
		UserID:       1,
		Amount:       amt("2500"),
		Source:       "Salary",
		DateReceived: core.NewDate(2024, 5, 28),
		PeriodStart:  core.NewDate(2024, 5, 16),
		PeriodEnd:    core.NewDate(2024, 6, 15),
	})
	store.addIncome(core.Income{
		UserID:       1,
		Amount:       amt("400"),
		Source:       "Freelance",
		DateReceived: core.NewDate(2024, 4, 1),
		PeriodStart:  core.NewDate(2024, 4, 1),
		PeriodEnd:    core.NewDate(2024, 4, 30),
	})

	agg := NewAggregator(store)
	total, err := agg.TotalIncome(context.Background(), 1, june())
	require.NoError(t, err)

	// Only the salary period overlaps June.
	assert.True(t, total.Equal(amt("2500")), "income = %s", total)
}

func TestAggregator_IncomeSummary_ZeroIncome(t *testing.T) {
	store := newMemStore()
	store.addTransaction(core.Transaction{
		UserID: 1,
		Amount: amt("100"),
		Date:   core.NewDate(2024, 6, 5),
	})

	agg := NewAggregator(store)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	summary, err := agg.IncomeSummary(context.Background(), 1, now)
	require.NoError(t, err)

	assert.Equal(t, float64(0), summary.AllTime.PercentRemaining, "zero income yields 0, not NaN")
	assert.True(t, summary.AllTime.IsNegative)
	assert.True(t, summary.AllTime.Remaining.Equal(amt("-100")))
}

func TestAggregator_IncomeSummary_PercentClamped(t *testing.T) {
	store := newMemStore()
	store.addIncome(core.Income{
		UserID:       1,
		Amount:       amt("1000"),
		Source:       "Salary",
		DateReceived: core.NewDate(2024, 6, 1),
		PeriodStart:  core.NewDate(2024, 6, 1),
		PeriodEnd:    core.NewDate(2024, 6, 30),
	})
	store.addTransaction(core.Transaction{
		UserID: 1,
		Amount: amt("250"),
		Date:   core.NewDate(2024, 6, 10),
	})

	agg := NewAggregator(store)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	summary, err := agg.IncomeSummary(context.Background(), 1, now)
	require.NoError(t, err)

	assert.InDelta(t, 75.0, summary.ThisMonth.PercentRemaining, 0.001)
	assert.False(t, summary.ThisMonth.IsNegative)
}

func TestAggregator_MonthlyIncome(t *testing.T) {
	store := newMemStore()
	store.addIncome(core.Income{
		UserID:       1,
		Amount:       amt("1000"),
		Source:       "Salary",
		DateReceived: core.NewDate(2024, 1, 28),
		PeriodStart:  core.NewDate(2024, 1, 1),
		PeriodEnd:    core.NewDate(2024, 1, 31),
	})
	store.addIncome(core.Income{
		UserID:       1,
		Amount:       amt("1100"),
		Source:       "Salary",
		DateReceived: core.NewDate(2024, 3, 28),
		PeriodStart:  core.NewDate(2024, 3, 1),
		PeriodEnd:    core.NewDate(2024, 3, 31),
	})

	agg := NewAggregator(store)
	series, err := agg.MonthlyIncome(context.Background(), 1, 2024)
	require.NoError(t, err)

	assert.True(t, series.Months[0].Equal(amt("1000")))
	assert.True(t, series.Months[1].IsZero())
	assert.True(t, series.Months[2].Equal(amt("1100")))
	assert.True(t, series.Total.Equal(amt("2100")))
}

func TestAggregator_SubscriptionSummary(t *testing.T) {
	store := newMemStore()
	store.addSubscription(core.Subscription{
		UserID: 1, Name: "Daily paper", Amount: amt("1"),
		BillingCycle: core.Daily, BillingDay: 1,
		StartDate: core.NewDate(2024, 1, 1), Status: core.StatusActive,
	})
	store.addSubscription(core.Subscription{
		UserID: 1, Name: "Weekly veg box", Amount: amt("10"),
		BillingCycle: core.Weekly, BillingDay: 1,
		StartDate: core.NewDate(2024, 1, 1), Status: core.StatusActive,
	})
	store.addSubscription(core.Subscription{
		UserID: 1, Name: "Streaming", Amount: amt("12"),
		BillingCycle: core.Monthly, BillingDay: 1,
		StartDate: core.NewDate(2024, 1, 1), Status: core.StatusActive,
	})
	store.addSubscription(core.Subscription{
		UserID: 1, Name: "Insurance", Amount: amt("120"),
		BillingCycle: core.Yearly, BillingDay: 1,
		StartDate: core.NewDate(2024, 1, 1), Status: core.StatusCancelled,
	})

	agg := NewAggregator(store)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	summary, err := agg.SubscriptionSummary(context.Background(), 1, now)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ActiveCount)
	assert.Equal(t, 1, summary.InactiveCount)
	// 1x30 + 10x4 + 12 = 82; the cancelled yearly one does not count.
	assert.True(t, summary.MonthlyCost.Equal(amt("82")), "monthly cost = %s", summary.MonthlyCost)
}

func TestAggregator_PaymentsForPeriod_SplitsByStatus(t *testing.T) {
	store := newMemStore()
	active := store.addSubscription(core.Subscription{
		UserID: 1, Name: "Streaming", Amount: amt("12"), Category: "Fun",
		BillingCycle: core.Monthly, BillingDay: 1,
		StartDate: core.NewDate(2024, 1, 1), Status: core.StatusActive,
	})
	paused := store.addSubscription(core.Subscription{
		UserID: 1, Name: "Box", Amount: amt("30"), Category: "Food",
		BillingCycle: core.Monthly, BillingDay: 1,
		StartDate: core.NewDate(2024, 1, 1), Status: core.StatusPaused,
	})

	store.CreatePaymentIfAbsent(context.Background(), core.SubscriptionPayment{
		SubscriptionID: active.ID, Amount: amt("12"), Date: core.NewDate(2024, 6, 1), IsPaid: true, PaidDate: core.NewDate(2024, 6, 1),
	})
	store.CreatePaymentIfAbsent(context.Background(), core.SubscriptionPayment{
		SubscriptionID: paused.ID, Amount: amt("30"), Date: core.NewDate(2024, 6, 1), IsPaid: true, PaidDate: core.NewDate(2024, 6, 1),
	})

	agg := NewAggregator(store)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	totals, err := agg.PaymentsForPeriod(context.Background(), 1, core.PeriodMonthly, now)
	require.NoError(t, err)

	assert.True(t, totals.ActiveTotal.Equal(amt("12")))
	assert.True(t, totals.InactiveTotal.Equal(amt("30")))
	assert.True(t, totals.Total.Equal(amt("42")))
	assert.Equal(t, 1, totals.ActiveCount)
	assert.Equal(t, 1, totals.InactiveCount)
	assert.Equal(t, 2, totals.PaymentCount)
}
