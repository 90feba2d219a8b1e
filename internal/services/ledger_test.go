package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLedgerGenerator_MonthlyCoverage(t *testing.T) {
	store := newMemStore()
	sub := store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Cloud storage",
		Amount:       amt("9.99"),
		Category:     "Software",
		BillingCycle: core.Monthly,
		BillingDay:   31,
		StartDate:    core.NewDate(2024, 1, 15),
		Status:       core.StatusActive,
	})

	gen := NewLedgerGenerator(store, nil)
	created, err := gen.GenerateForSubscription(context.Background(), sub, core.NewDate(2024, 4, 30))
	require.NoError(t, err)

	want := []core.Date{
		core.NewDate(2024, 1, 31),
		core.NewDate(2024, 2, 29),
		core.NewDate(2024, 3, 31),
		core.NewDate(2024, 4, 30),
	}
	require.Len(t, created, len(want))
	for i, p := range created {
		assert.True(t, p.Date.Equal(want[i].Time), "payment %d on %s, want %s", i, p.Date, want[i])
		assert.True(t, p.Amount.Equal(sub.Amount))
		assert.True(t, p.IsPaid)
		assert.True(t, p.PaidDate.Equal(want[i].Time))
	}
}

func TestLedgerGenerator_Idempotent(t *testing.T) {
	store := newMemStore()
	sub := store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Gym",
		Amount:       amt("25"),
		Category:     "Health",
		BillingCycle: core.Weekly,
		BillingDay:   1,
		StartDate:    core.NewDate(2024, 3, 4),
		Status:       core.StatusActive,
	})

	gen := NewLedgerGenerator(store, nil)
	upTo := core.NewDate(2024, 3, 31)

	first, err := gen.GenerateForSubscription(context.Background(), sub, upTo)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := gen.GenerateForSubscription(context.Background(), sub, upTo)
	require.NoError(t, err)
	assert.Empty(t, second, "second run must create nothing")
	assert.Len(t, store.payments, len(first), "payment set unchanged after re-run")
}

func TestLedgerGenerator_StopsAtEndDate(t *testing.T) {
	store := newMemStore()
	// Still active, but with a scheduled stop date.
	sub := store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Paper",
		Amount:       amt("5"),
		Category:     "News",
		BillingCycle: core.Daily,
		BillingDay:   1,
		StartDate:    core.NewDate(2024, 6, 1),
		EndDate:      core.NewDate(2024, 6, 3),
		Status:       core.StatusActive,
	})

	gen := NewLedgerGenerator(store, nil)
	created, err := gen.GenerateForSubscription(context.Background(), sub, core.NewDate(2024, 6, 30))
	require.NoError(t, err)
	require.Len(t, created, 3, "no charges past the end date")
	assert.True(t, created[2].Date.Equal(core.NewDate(2024, 6, 3).Time))
}

func TestLedgerGenerator_InactiveGeneratesNothing(t *testing.T) {
	for _, status := range []core.SubscriptionStatus{core.StatusPaused, core.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			store := newMemStore()
			sub := store.addSubscription(core.Subscription{
				UserID:       1,
				Name:         "Box",
				Amount:       amt("30"),
				BillingCycle: core.Monthly,
				BillingDay:   10,
				StartDate:    core.NewDate(2024, 3, 10),
				Status:       status,
			})

			gen := NewLedgerGenerator(store, nil)
			created, err := gen.GenerateForSubscription(context.Background(), sub, core.NewDate(2024, 6, 15))
			require.NoError(t, err)
			assert.Empty(t, created, "inactive subscriptions must not accrue charges")
			assert.Empty(t, store.payments)
		})
	}
}

func TestLedgerGenerator_ResumesPastStepBound(t *testing.T) {
	store := newMemStore()
	// A daily subscription older than the per-run walk bound: one run
	// cannot cover the backlog, but consecutive runs must catch up
	// instead of freezing at the same date forever.
	sub := store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Paper",
		Amount:       amt("1"),
		BillingCycle: core.Daily,
		BillingDay:   1,
		StartDate:    core.NewDate(2020, 1, 1),
		Status:       core.StatusActive,
	})

	gen := NewLedgerGenerator(store, nil)
	upTo := core.NewDate(2023, 6, 15) // 1262 daily charges in total
	ctx := context.Background()

	first, err := gen.GenerateForSubscription(ctx, sub, upTo)
	require.NoError(t, err)
	require.Len(t, first, 1000)

	second, err := gen.GenerateForSubscription(ctx, sub, upTo)
	require.NoError(t, err)
	require.Len(t, second, 262)
	assert.True(t, second[0].Date.Equal(core.NewDate(2022, 9, 27).Time), "second run resumes after the last posted date")
	assert.True(t, second[len(second)-1].Date.Equal(upTo.Time))

	third, err := gen.GenerateForSubscription(ctx, sub, upTo)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestLedgerGenerator_GenerateForUser(t *testing.T) {
	store := newMemStore()
	store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Streaming",
		Amount:       amt("15"),
		Category:     "Entertainment",
		BillingCycle: core.Monthly,
		BillingDay:   1,
		StartDate:    core.NewDate(2024, 1, 1),
		Status:       core.StatusActive,
	})
	store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Paused box",
		Amount:       amt("30"),
		Category:     "Food",
		BillingCycle: core.Monthly,
		BillingDay:   1,
		StartDate:    core.NewDate(2024, 1, 1),
		Status:       core.StatusPaused,
	})
	store.addSubscription(core.Subscription{
		UserID:       2,
		Name:         "Other user",
		Amount:       amt("8"),
		BillingCycle: core.Monthly,
		BillingDay:   1,
		StartDate:    core.NewDate(2024, 1, 1),
		Status:       core.StatusActive,
	})

	gen := NewLedgerGenerator(store, nil)
	count, err := gen.GenerateForUser(context.Background(), 1, core.NewDate(2024, 3, 31))
	require.NoError(t, err)

	// Only the active subscription of user 1: Jan, Feb, Mar.
	assert.Equal(t, 3, count)
	assert.Len(t, store.payments, 3)
}

func TestSubscriptionService_StatusTransitions(t *testing.T) {
	store := newMemStore()
	sub := store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Music",
		Amount:       amt("10"),
		BillingCycle: core.Monthly,
		BillingDay:   1,
		StartDate:    core.NewDate(2024, 1, 1),
		Status:       core.StatusActive,
	})

	svc := NewSubscriptionService(store)
	now := core.NewDate(2024, 6, 15).Time

	cancelled, err := svc.SetStatus(context.Background(), 1, sub.ID, core.StatusCancelled, now)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCancelled, cancelled.Status)
	assert.True(t, cancelled.EndDate.Equal(core.NewDate(2024, 6, 15).Time), "cancelling stamps end date")

	reactivated, err := svc.SetStatus(context.Background(), 1, sub.ID, core.StatusActive, now)
	require.NoError(t, err)
	assert.Equal(t, core.StatusActive, reactivated.Status)
	assert.True(t, reactivated.EndDate.IsZero(), "reactivating clears end date")

	_, err = svc.SetStatus(context.Background(), 2, sub.ID, core.StatusPaused, now)
	assert.ErrorIs(t, err, core.ErrNotFound, "other users cannot touch the subscription")
}

func TestSubscriptionService_PaymentToggleDoesNotAffectRegeneration(t *testing.T) {
	store := newMemStore()
	sub := store.addSubscription(core.Subscription{
		UserID:       1,
		Name:         "Magazine",
		Amount:       amt("12"),
		BillingCycle: core.Monthly,
		BillingDay:   1,
		StartDate:    core.NewDate(2024, 1, 1),
		Status:       core.StatusActive,
	})

	gen := NewLedgerGenerator(store, nil)
	upTo := core.NewDate(2024, 2, 29)
	created, err := gen.GenerateForSubscription(context.Background(), sub, upTo)
	require.NoError(t, err)
	require.Len(t, created, 2)

	svc := NewSubscriptionService(store)
	toggled, err := svc.SetPaymentPaid(context.Background(), 1, created[0].ID, false, core.NewDate(2024, 3, 1).Time)
	require.NoError(t, err)
	assert.False(t, toggled.IsPaid)
	assert.True(t, toggled.PaidDate.IsZero())

	// Regeneration leaves the manually toggled row untouched.
	again, err := gen.GenerateForSubscription(context.Background(), sub, upTo)
	require.NoError(t, err)
	assert.Empty(t, again)

	stored, err := store.GetPayment(context.Background(), 1, created[0].ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPaid)
}
