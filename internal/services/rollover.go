package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
)

// RolloverStore is the persistence surface budget rollover needs.
// DeactivateBudget must commit independently of successor creation so a
// failed create can never resurrect an expired budget.
type RolloverStore interface {
	ListExpiredActiveBudgets(ctx context.Context, userID int64, today core.Date) ([]core.Budget, error)
	DeactivateBudget(ctx context.Context, id int64) error
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
}

// RolloverResult reports what one rollover pass did.
type RolloverResult struct {
	Deactivated []core.Budget
	Created     []core.Budget
}

// RolloverEngine retires active budgets whose period has passed and, for
// recurring ones, materializes the successor period. Only budgets with
// is_active and period_end before today are eligible, so running the
// engine twice is a no-op.
type RolloverEngine struct {
	store  RolloverStore
	events EventPublisher
}

func NewRolloverEngine(store RolloverStore, events EventPublisher) *RolloverEngine {
	return &RolloverEngine{store: store, events: events}
}

// NextPeriod computes the successor period for a recurrence cadence:
// the day after the old period end, through one cadence length later.
// Unrecognized cadences default to monthly; degenerate reports whether
// that fallback was taken so the caller can flag the data.
func NextPeriod(periodEnd core.Date, recurrence core.Cadence) (start, end core.Date, degenerate bool) {
	start = periodEnd.AddDays(1)
	cadence, known := core.CadenceOrDefault(string(recurrence))
	switch cadence {
	case core.Daily:
		end = start
	case core.Weekly:
		end = start.AddDays(6)
	case core.Yearly:
		end = start.AddYears(1).AddDays(-1)
	default:
		end = start.AddMonths(1).AddDays(-1)
	}
	return start, end, !known
}

// Rollover processes all expired active budgets of one user as of today.
// Each budget is deactivated first; if the successor insert then fails
// (for instance an active budget with the same category already exists)
// the deactivation stands and the failure is surfaced in the returned
// error while the pass continues with the remaining budgets.
func (e *RolloverEngine) Rollover(ctx context.Context, userID int64, today core.Date) (RolloverResult, error) {
	expired, err := e.store.ListExpiredActiveBudgets(ctx, userID, today)
	if err != nil {
		return RolloverResult{}, fmt.Errorf("list expired budgets: %w", err)
	}

	var result RolloverResult
	var firstErr error

	for _, budget := range expired {
		if err := e.store.DeactivateBudget(ctx, budget.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to deactivate expired budget",
				"budget_id", budget.ID,
				"error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("deactivate budget %d: %w", budget.ID, err)
			}
			continue
		}
		budget.IsActive = false
		result.Deactivated = append(result.Deactivated, budget)

		if !budget.IsRecurring {
			continue
		}

		nextStart, nextEnd, degenerate := NextPeriod(budget.PeriodEnd, budget.Recurrence)
		if degenerate {
			slog.WarnContext(ctx, "Budget has unrecognized recurrence, rolling over as monthly",
				"budget_id", budget.ID,
				"recurrence", budget.Recurrence)
		}

		successor := core.Budget{
			UserID:      budget.UserID,
			Category:    budget.Category,
			Amount:      budget.Amount,
			PeriodStart: nextStart,
			PeriodEnd:   nextEnd,
			Recurrence:  budget.Recurrence,
			IsActive:    true,
			IsRecurring: true,
			IsShared:    budget.IsShared,
		}

		created, err := e.store.CreateBudget(ctx, successor)
		if err != nil {
			// The parent stays deactivated; surface the creation failure.
			slog.ErrorContext(ctx, "Failed to create successor budget",
				"budget_id", budget.ID,
				"category", budget.Category,
				"error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("create successor for budget %d: %w", budget.ID, err)
			}
			continue
		}

		result.Created = append(result.Created, created)
		e.publishRolledOver(ctx, budget, created)

		slog.InfoContext(ctx, "Rolled budget over",
			"budget_id", budget.ID,
			"successor_id", created.ID,
			"category", created.Category,
			"period_start", created.PeriodStart.String(),
			"period_end", created.PeriodEnd.String())
	}

	return result, firstErr
}

// RolloverAsOf is a convenience wrapper taking a wall-clock time.
func (e *RolloverEngine) RolloverAsOf(ctx context.Context, userID int64, now time.Time) (RolloverResult, error) {
	return e.Rollover(ctx, userID, core.DateOf(now))
}

func (e *RolloverEngine) publishRolledOver(ctx context.Context, expired, successor core.Budget) {
	if e.events == nil {
		return
	}
	if err := e.events.BudgetRolledOver(ctx, expired, successor); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget rollover event",
			"budget_id", expired.ID,
			"error", err)
	}
}
