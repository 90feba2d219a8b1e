// Package services orchestrates the accounting engine over a persistence
// collaborator: payment ledger generation, budget rollover, aggregation
// and subscription lifecycle transitions.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// LedgerStore is the persistence surface the payment ledger generator
// needs. CreatePaymentIfAbsent must be atomic on the (subscription, date)
// uniqueness constraint: a concurrent duplicate insert reports created as
// false, never an error.
type LedgerStore interface {
	ListSubscriptions(ctx context.Context, userID int64, statuses ...core.SubscriptionStatus) ([]core.Subscription, error)
	CreatePaymentIfAbsent(ctx context.Context, p core.SubscriptionPayment) (core.SubscriptionPayment, bool, error)
	LatestPaymentDate(ctx context.Context, subscriptionID int64) (core.Date, error)
}

// EventPublisher notifies downstream consumers about engine activity.
// Implementations may be nil-backed; services skip publishing when no
// publisher is configured.
type EventPublisher interface {
	PaymentPosted(ctx context.Context, p core.SubscriptionPayment) error
	BudgetRolledOver(ctx context.Context, expired, successor core.Budget) error
}

// LedgerGenerator materializes SubscriptionPayment rows from subscription
// billing schedules. Generation is idempotent: re-running with the same
// up-to date creates nothing new and never touches existing rows, so it is
// safe both for the scheduled sweep and for lazy on-read generation.
type LedgerGenerator struct {
	store  LedgerStore
	events EventPublisher
}

func NewLedgerGenerator(store LedgerStore, events EventPublisher) *LedgerGenerator {
	return &LedgerGenerator{store: store, events: events}
}

// GenerateForSubscription creates the missing payment rows for one
// subscription from its start date through upTo, returning only the rows
// created by this call. Only active subscriptions accrue charges; paused
// and cancelled ones keep their posted history but generate nothing new.
func (g *LedgerGenerator) GenerateForSubscription(ctx context.Context, sub core.Subscription, upTo core.Date) ([]core.SubscriptionPayment, error) {
	if !sub.IsActive() {
		return nil, nil
	}
	if _, known := core.CadenceOrDefault(string(sub.BillingCycle)); !known {
		slog.WarnContext(ctx, "Subscription has unrecognized billing cycle, billing as monthly",
			"subscription_id", sub.ID,
			"billing_cycle", sub.BillingCycle)
	}

	dates, err := g.billingDates(ctx, sub, upTo)
	if err != nil {
		return nil, err
	}

	var created []core.SubscriptionPayment
	for _, billingDate := range dates {
		// Never bill past the subscription's end date.
		if !sub.EndDate.IsZero() && billingDate.After(sub.EndDate.Time) {
			continue
		}

		payment := core.SubscriptionPayment{
			SubscriptionID: sub.ID,
			Amount:         sub.Amount,
			Date:           billingDate,
			IsPaid:         true,
			PaidDate:       billingDate,
		}

		saved, wasCreated, err := g.store.CreatePaymentIfAbsent(ctx, payment)
		if err != nil {
			return created, fmt.Errorf("create payment for %s: %w", billingDate, err)
		}
		if !wasCreated {
			// Already posted by an earlier run or a concurrent generator.
			continue
		}

		created = append(created, saved)
		g.publishPaymentPosted(ctx, saved)
	}

	if len(created) > 0 {
		slog.InfoContext(ctx, "Posted subscription payments",
			"subscription_id", sub.ID,
			"created", len(created),
			"up_to", upTo.String())
	}

	return created, nil
}

// billingDates picks the walk for one generation run. With posted history
// the walk resumes after the latest payment instead of restarting at the
// subscription's start date, so the step bound caps a single run and a
// long-lived subscription catches up across runs instead of freezing at
// the bound.
func (g *LedgerGenerator) billingDates(ctx context.Context, sub core.Subscription, upTo core.Date) ([]core.Date, error) {
	latest, err := g.store.LatestPaymentDate(ctx, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("latest payment date: %w", err)
	}
	if latest.IsZero() || latest.Before(sub.StartDate.Time) {
		return core.BillingDates(sub.StartDate, upTo, sub.BillingCycle, sub.BillingDay), nil
	}
	return core.BillingDatesAfter(latest, upTo, sub.BillingCycle, sub.BillingDay), nil
}

// GenerateForUser sweeps all active subscriptions of one user. Failures on
// a single subscription are logged and skipped so one bad record cannot
// stall the whole sweep.
func (g *LedgerGenerator) GenerateForUser(ctx context.Context, userID int64, upTo core.Date) (int, error) {
	subs, err := g.store.ListSubscriptions(ctx, userID, core.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("list active subscriptions: %w", err)
	}

	createdCount := 0
	for _, sub := range subs {
		created, err := g.GenerateForSubscription(ctx, sub, upTo)
		createdCount += len(created)
		if err != nil {
			slog.ErrorContext(ctx, "Payment generation failed for subscription",
				"subscription_id", sub.ID,
				"error", err)
			continue
		}
	}

	return createdCount, nil
}

func (g *LedgerGenerator) publishPaymentPosted(ctx context.Context, p core.SubscriptionPayment) {
	if g.events == nil {
		return
	}
	if err := g.events.PaymentPosted(ctx, p); err != nil {
		// The payment is already posted; losing the event is acceptable.
		slog.ErrorContext(ctx, "Failed to publish payment posted event",
			"payment_id", p.ID,
			"error", err)
	}
}
