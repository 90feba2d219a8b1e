package http

import (
	"net/http"

	"fintrack/internal/core"
)

// handleDashboard returns the calendar-aligned summary for the
// requested period token.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	period := queryPeriod(r)

	summary, err := s.aggregator.DashboardSummary(r.Context(), userID(r.Context()), period, s.now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dashboardResponse{
		Period:     string(summary.Period),
		Label:      core.PeriodLabel(summary.Period),
		From:       date(summary.Range.Start),
		To:         date(summary.Range.End),
		Income:     money(summary.Income),
		Spending:   toSpentBreakdownResponse(summary.Spending),
		Remaining:  money(summary.Remaining),
		Categories: toCategoryBreakdownResponse(summary.Categories),
	})
}

// handleSpending totals spending over a rolling period, optionally
// filtered by category (case-insensitive).
func (s *Server) handleSpending(w http.ResponseWriter, r *http.Request) {
	rng := core.ResolvePeriod(queryPeriod(r), s.now())
	category := r.URL.Query().Get("category")

	spent, err := s.aggregator.TotalSpent(r.Context(), userID(r.Context()), rng, category)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toSpentBreakdownResponse(spent))
}

func (s *Server) handleSpendingByCategory(w http.ResponseWriter, r *http.Request) {
	rng := core.ResolvePeriod(queryPeriod(r), s.now())

	breakdown, err := s.aggregator.SpendingByCategory(r.Context(), userID(r.Context()), rng)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryBreakdownResponse(breakdown))
}
