package http

import (
	"context"

	"fintrack/internal/core"
)

// Store is the persistence surface the handlers use directly. The
// SQLite repository satisfies it; aggregation and billing flows go
// through the services instead.
type Store interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	ListTransactions(ctx context.Context, userID int64, rng core.Range) ([]core.Transaction, error)

	CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
	GetSubscription(ctx context.Context, userID, id int64) (core.Subscription, error)
	UpdateSubscription(ctx context.Context, s core.Subscription) error
	DeleteSubscription(ctx context.Context, userID, id int64) error
	ListSubscriptions(ctx context.Context, userID int64, statuses ...core.SubscriptionStatus) ([]core.Subscription, error)

	ListPaymentDetails(ctx context.Context, userID int64, rng core.Range) ([]core.PaymentDetail, error)

	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	GetBudget(ctx context.Context, userID, id int64) (core.Budget, error)
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, userID, id int64) error
	ListBudgets(ctx context.Context, userID int64, activeOnly bool) ([]core.Budget, error)

	CreateIncome(ctx context.Context, i core.Income) (core.Income, error)
	GetIncome(ctx context.Context, userID, id int64) (core.Income, error)
	UpdateIncome(ctx context.Context, i core.Income) error
	DeleteIncome(ctx context.Context, userID, id int64) error
	ListIncomes(ctx context.Context, userID int64, rng core.Range) ([]core.Income, error)
}
