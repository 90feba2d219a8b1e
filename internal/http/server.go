// Package http is the JSON API surface. Handlers stay thin: they parse
// and validate input, call a service or the repository, and translate
// domain errors to status codes. The user id arrives in the X-User-ID
// header; authentication itself is an upstream concern.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/cache"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type Server struct {
	http.Server

	store         Store
	ledger        *services.LedgerGenerator
	rollover      *services.RolloverEngine
	aggregator    *services.Aggregator
	subscriptions *services.SubscriptionService

	rateLimiter  *rateLimiter
	summaries    *cache.LRU[cachedResponse]
	shutdownOnce sync.Once

	// now is swapped in tests for a fixed clock.
	now func() time.Time
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store Store, ledger *services.LedgerGenerator, rollover *services.RolloverEngine, aggregator *services.Aggregator, subscriptions *services.SubscriptionService, logger *applog.Logger) *Server {
	s := &Server{
		store:         store,
		ledger:        ledger,
		rollover:      rollover,
		aggregator:    aggregator,
		subscriptions: subscriptions,
		rateLimiter:   newRateLimiter(),
		summaries:     newSummaryCache(),
		now:           time.Now,
	}

	r := chi.NewRouter()
	r.Use(applog.Middleware(logger))
	r.Use(requestIDMiddleware)
	r.Use(applog.RequestIDMiddleware(requestIDFromRequest))
	r.Use(s.traceMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.rateLimitMiddleware)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireUser)
		r.Use(s.summaryCacheMiddleware)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Get("/{id}", s.handleGetTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", s.handleListSubscriptions)
			r.Post("/", s.handleCreateSubscription)
			r.Get("/summary", s.handleSubscriptionSummary)
			r.Get("/{id}", s.handleGetSubscription)
			r.Put("/{id}", s.handleUpdateSubscription)
			r.Delete("/{id}", s.handleDeleteSubscription)
			r.Post("/{id}/status", s.handleSubscriptionStatus)
			r.Post("/{id}/generate", s.handleGeneratePayments)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", s.handleListPayments)
			r.Get("/summary", s.handlePaymentsForPeriod)
			r.Post("/{id}/paid", s.handleSetPaymentPaid)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Post("/", s.handleCreateBudget)
			r.Post("/rollover", s.handleBudgetRollover)
			r.Get("/{id}", s.handleGetBudget)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
			r.Get("/{id}/spent", s.handleBudgetSpent)
		})

		r.Route("/incomes", func(r chi.Router) {
			r.Get("/", s.handleListIncomes)
			r.Post("/", s.handleCreateIncome)
			r.Get("/summary", s.handleIncomeSummary)
			r.Get("/by-source", s.handleIncomeBySource)
			r.Get("/monthly", s.handleMonthlyIncome)
			r.Get("/{id}", s.handleGetIncome)
			r.Put("/{id}", s.handleUpdateIncome)
			r.Delete("/{id}", s.handleDeleteIncome)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", s.handleDashboard)
			r.Get("/spending", s.handleSpending)
			r.Get("/categories", s.handleSpendingByCategory)
		})
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
