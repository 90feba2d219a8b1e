package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Cadence is a closed set of billing/recurrence frequencies.
type Cadence string

const (
	Daily   Cadence = "daily"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
	Yearly  Cadence = "yearly"
)

// ParseCadence converts a string to a Cadence, rejecting unknown values.
// Use CadenceOrDefault on read paths that must stay resilient to bad
// historical data.
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(strings.ToLower(strings.TrimSpace(s))) {
	case Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	case Yearly:
		return Yearly, nil
	default:
		return "", ErrInvalidCadence
	}
}

// CadenceOrDefault falls back to Monthly for unrecognized values. The
// second return value tells the caller the input was degenerate so it can
// be logged as a data-quality signal.
func CadenceOrDefault(s string) (Cadence, bool) {
	c, err := ParseCadence(s)
	if err != nil {
		return Monthly, false
	}
	return c, true
}

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusPaused    SubscriptionStatus = "paused"
	StatusCancelled SubscriptionStatus = "cancelled"
)

func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	switch SubscriptionStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusPaused:
		return StatusPaused, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

type (
	// Transaction is a one-off money flow recorded directly by the user.
	Transaction struct {
		ID          int64
		UserID      int64
		Amount      decimal.Decimal
		Category    string // optional; empty means uncategorized
		Date        Date
		Description string
	}

	// Subscription is a recurring charge template. Payments are generated
	// from it lazily by the ledger generator.
	Subscription struct {
		ID           int64
		UserID       int64
		Name         string
		Amount       decimal.Decimal
		Category     string
		BillingCycle Cadence
		BillingDay   int  // 1-31, clamped to month length at billing time
		StartDate    Date
		EndDate      Date // zero means open-ended
		Status       SubscriptionStatus
		Description  string
	}

	// SubscriptionPayment is one posted ledger charge. At most one payment
	// exists per (subscription, date) pair.
	SubscriptionPayment struct {
		ID             int64
		SubscriptionID int64
		Amount         decimal.Decimal
		Date           Date
		IsPaid         bool
		PaidDate       Date // set iff IsPaid
	}

	// Budget is a category spending limit over one period. Expired budgets
	// are deactivated, never deleted, so historical aggregation keeps
	// working.
	Budget struct {
		ID          int64
		UserID      int64
		Category    string
		Amount      decimal.Decimal
		PeriodStart Date
		PeriodEnd   Date
		Recurrence  Cadence // empty when not recurring
		IsActive    bool
		IsRecurring bool
		IsShared    bool
	}

	// PaymentDetail joins a payment with the owning subscription's
	// category, name and status, the shape aggregation works on.
	PaymentDetail struct {
		Payment  SubscriptionPayment
		Name     string
		Category string
		Status   SubscriptionStatus
	}

	// Income is money received covering a period of time.
	Income struct {
		ID           int64
		UserID       int64
		Amount       decimal.Decimal
		Source       string
		DateReceived Date
		PeriodStart  Date
		PeriodEnd    Date
	}
)

func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return t.Date.Validate()
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if _, err := ParseCadence(string(s.BillingCycle)); err != nil {
		return err
	}
	if _, err := ParseSubscriptionStatus(string(s.Status)); err != nil {
		return err
	}
	if s.BillingDay < 1 || s.BillingDay > 31 {
		return ErrInvalidDay
	}
	if err := s.StartDate.Validate(); err != nil {
		return err
	}
	if !s.EndDate.IsZero() && s.EndDate.Before(s.StartDate.Time) {
		return ErrInvalidPeriod
	}
	return nil
}

// IsActive reports whether the subscription currently bills.
func (s Subscription) IsActive() bool {
	return s.Status == StatusActive
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if err := b.PeriodStart.Validate(); err != nil {
		return err
	}
	if err := b.PeriodEnd.Validate(); err != nil {
		return err
	}
	if b.PeriodEnd.Before(b.PeriodStart.Time) {
		return ErrInvalidPeriod
	}
	if b.Recurrence != "" {
		if _, err := ParseCadence(string(b.Recurrence)); err != nil {
			return err
		}
	}
	return nil
}

func (i Income) Validate() error {
	if i.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(i.Source) == "" {
		return ErrEmptySource
	}
	if err := i.DateReceived.Validate(); err != nil {
		return err
	}
	if err := i.PeriodStart.Validate(); err != nil {
		return err
	}
	if err := i.PeriodEnd.Validate(); err != nil {
		return err
	}
	if i.PeriodEnd.Before(i.PeriodStart.Time) {
		return ErrInvalidPeriod
	}
	return nil
}
