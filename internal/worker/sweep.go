// Package worker runs the scheduled sweep: for every known user it
// materializes due subscription payments and rolls over expired
// budgets. The sweep is safe to run repeatedly because both underlying
// operations are idempotent.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// UserLister enumerates the users the sweep should visit.
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]int64, error)
}

type SweepWorker struct {
	users       UserLister
	ledger      *services.LedgerGenerator
	rollover    *services.RolloverEngine
	concurrency int
}

func NewSweepWorker(users UserLister, ledger *services.LedgerGenerator, rollover *services.RolloverEngine, concurrency int) *SweepWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SweepWorker{
		users:       users,
		ledger:      ledger,
		rollover:    rollover,
		concurrency: concurrency,
	}
}

// SweepResult aggregates one pass over all users.
type SweepResult struct {
	Users           int
	PaymentsCreated int
	BudgetsRolled   int
	Errors          int
}

// Run performs one sweep pass. A failure for one user is logged and
// counted but does not stop the pass for the others.
func (w *SweepWorker) Run(ctx context.Context, now time.Time) (SweepResult, error) {
	userIDs, err := w.users.ListUserIDs(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list users for sweep: %w", err)
	}

	today := core.DateOf(now)
	counts := make([]SweepResult, len(userIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, userID := range userIDs {
		i, userID := i, userID
		g.Go(func() error {
			counts[i] = w.sweepUser(gctx, userID, today)
			return nil
		})
	}
	// Per-user errors are absorbed in sweepUser; the group only carries
	// context cancellation.
	if err := g.Wait(); err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Users: len(userIDs)}
	for _, c := range counts {
		result.PaymentsCreated += c.PaymentsCreated
		result.BudgetsRolled += c.BudgetsRolled
		result.Errors += c.Errors
	}

	slog.InfoContext(ctx, "Sweep pass complete",
		"users", result.Users,
		"payments_created", result.PaymentsCreated,
		"budgets_rolled", result.BudgetsRolled,
		"errors", result.Errors)

	return result, nil
}

func (w *SweepWorker) sweepUser(ctx context.Context, userID int64, today core.Date) SweepResult {
	var r SweepResult

	created, err := w.ledger.GenerateForUser(ctx, userID, today)
	if err != nil {
		slog.ErrorContext(ctx, "Payment generation failed during sweep",
			"user_id", userID,
			"error", err)
		r.Errors++
	}
	r.PaymentsCreated = created

	rolled, err := w.rollover.Rollover(ctx, userID, today)
	if err != nil {
		slog.ErrorContext(ctx, "Budget rollover failed during sweep",
			"user_id", userID,
			"error", err)
		r.Errors++
	}
	r.BudgetsRolled = len(rolled.Created)

	return r
}
