package services

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// memStore is an in-memory persistence fake shared by the service tests.
// It enforces the same uniqueness invariants as the real repository:
// one payment per (subscription, date), one active budget per
// (user, category).
type memStore struct {
	subscriptions []core.Subscription
	payments      []core.SubscriptionPayment
	budgets       []core.Budget
	transactions  []core.Transaction
	incomes       []core.Income
	nextID        int64
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addSubscription(sub core.Subscription) core.Subscription {
	sub.ID = m.id()
	m.subscriptions = append(m.subscriptions, sub)
	return sub
}

func (m *memStore) addTransaction(t core.Transaction) core.Transaction {
	t.ID = m.id()
	m.transactions = append(m.transactions, t)
	return t
}

func (m *memStore) addIncome(i core.Income) core.Income {
	i.ID = m.id()
	m.incomes = append(m.incomes, i)
	return i
}

func (m *memStore) addBudget(b core.Budget) core.Budget {
	b.ID = m.id()
	m.budgets = append(m.budgets, b)
	return b
}

func (m *memStore) ListSubscriptions(_ context.Context, userID int64, statuses ...core.SubscriptionStatus) ([]core.Subscription, error) {
	var out []core.Subscription
	for _, s := range m.subscriptions {
		if s.UserID != userID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, st := range statuses {
				if s.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) CreatePaymentIfAbsent(_ context.Context, p core.SubscriptionPayment) (core.SubscriptionPayment, bool, error) {
	for _, existing := range m.payments {
		if existing.SubscriptionID == p.SubscriptionID && existing.Date.Equal(p.Date.Time) {
			return existing, false, nil
		}
	}
	p.ID = m.id()
	m.payments = append(m.payments, p)
	return p, true, nil
}

func (m *memStore) LatestPaymentDate(_ context.Context, subscriptionID int64) (core.Date, error) {
	var latest core.Date
	for _, p := range m.payments {
		if p.SubscriptionID == subscriptionID && p.Date.After(latest.Time) {
			latest = p.Date
		}
	}
	return latest, nil
}

func (m *memStore) ListTransactions(_ context.Context, userID int64, r core.Range) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID && r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) ListPaymentDetails(_ context.Context, userID int64, r core.Range) ([]core.PaymentDetail, error) {
	var out []core.PaymentDetail
	for _, p := range m.payments {
		if !r.Contains(p.Date) {
			continue
		}
		for _, s := range m.subscriptions {
			if s.ID == p.SubscriptionID && s.UserID == userID {
				out = append(out, core.PaymentDetail{
					Payment:  p,
					Name:     s.Name,
					Category: s.Category,
					Status:   s.Status,
				})
			}
		}
	}
	return out, nil
}

func (m *memStore) ListIncomes(_ context.Context, userID int64, r core.Range) ([]core.Income, error) {
	var out []core.Income
	for _, i := range m.incomes {
		if i.UserID == userID && r.Overlaps(i.PeriodStart, i.PeriodEnd) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *memStore) ListExpiredActiveBudgets(_ context.Context, userID int64, today core.Date) ([]core.Budget, error) {
	var out []core.Budget
	for _, b := range m.budgets {
		if b.UserID == userID && b.IsActive && b.PeriodEnd.Before(today.Time) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) DeactivateBudget(_ context.Context, id int64) error {
	for i := range m.budgets {
		if m.budgets[i].ID == id {
			m.budgets[i].IsActive = false
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *memStore) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	for _, existing := range m.budgets {
		if existing.UserID == b.UserID && existing.IsActive && strings.EqualFold(existing.Category, b.Category) {
			return core.Budget{}, fmt.Errorf("active budget for category %q already exists", b.Category)
		}
	}
	return m.addBudget(b), nil
}

func (m *memStore) GetSubscription(_ context.Context, userID, id int64) (core.Subscription, error) {
	for _, s := range m.subscriptions {
		if s.ID == id && s.UserID == userID {
			return s, nil
		}
	}
	return core.Subscription{}, core.ErrNotFound
}

func (m *memStore) UpdateSubscription(_ context.Context, sub core.Subscription) error {
	for i := range m.subscriptions {
		if m.subscriptions[i].ID == sub.ID {
			m.subscriptions[i] = sub
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *memStore) GetPayment(_ context.Context, userID, paymentID int64) (core.SubscriptionPayment, error) {
	for _, p := range m.payments {
		if p.ID != paymentID {
			continue
		}
		for _, s := range m.subscriptions {
			if s.ID == p.SubscriptionID && s.UserID == userID {
				return p, nil
			}
		}
	}
	return core.SubscriptionPayment{}, core.ErrNotFound
}

func (m *memStore) UpdatePayment(_ context.Context, payment core.SubscriptionPayment) error {
	for i := range m.payments {
		if m.payments[i].ID == payment.ID {
			m.payments[i] = payment
			return nil
		}
	}
	return core.ErrNotFound
}
