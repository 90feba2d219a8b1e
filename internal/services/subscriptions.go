package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
)

// SubscriptionStore is the persistence surface for subscription lifecycle
// changes and manual payment toggles.
type SubscriptionStore interface {
	GetSubscription(ctx context.Context, userID, id int64) (core.Subscription, error)
	UpdateSubscription(ctx context.Context, sub core.Subscription) error
	GetPayment(ctx context.Context, userID, paymentID int64) (core.SubscriptionPayment, error)
	UpdatePayment(ctx context.Context, p core.SubscriptionPayment) error
}

// SubscriptionService applies subscription lifecycle transitions.
// Cancelling stamps the end date so billing stops; reactivating clears it.
type SubscriptionService struct {
	store SubscriptionStore
}

func NewSubscriptionService(store SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{store: store}
}

// SetStatus transitions a subscription to the given status.
//
// cancelled sets end_date to today (unless already set), active clears it,
// paused leaves it untouched.
func (s *SubscriptionService) SetStatus(ctx context.Context, userID, id int64, status core.SubscriptionStatus, now time.Time) (core.Subscription, error) {
	status, err := core.ParseSubscriptionStatus(string(status))
	if err != nil {
		return core.Subscription{}, err
	}

	sub, err := s.store.GetSubscription(ctx, userID, id)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}

	switch status {
	case core.StatusCancelled:
		if sub.EndDate.IsZero() {
			sub.EndDate = core.DateOf(now)
		}
	case core.StatusActive:
		sub.EndDate = core.Date{}
	}
	sub.Status = status

	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}

	slog.InfoContext(ctx, "Subscription status changed",
		"subscription_id", sub.ID,
		"status", sub.Status,
		"end_date", sub.EndDate.String())

	return sub, nil
}

// SetPaymentPaid toggles the manual paid flag on one ledger payment. The
// toggle never affects regeneration: the row keeps existing either way, so
// the generator will not recreate the charge.
func (s *SubscriptionService) SetPaymentPaid(ctx context.Context, userID, paymentID int64, paid bool, now time.Time) (core.SubscriptionPayment, error) {
	payment, err := s.store.GetPayment(ctx, userID, paymentID)
	if err != nil {
		return core.SubscriptionPayment{}, fmt.Errorf("get payment: %w", err)
	}

	payment.IsPaid = paid
	if paid {
		payment.PaidDate = core.DateOf(now)
	} else {
		payment.PaidDate = core.Date{}
	}

	if err := s.store.UpdatePayment(ctx, payment); err != nil {
		return core.SubscriptionPayment{}, fmt.Errorf("update payment: %w", err)
	}

	return payment, nil
}
