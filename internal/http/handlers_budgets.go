package http

import (
	"net/http"

	"fintrack/internal/core"
)

type budgetRequest struct {
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Recurrence  string `json:"recurrence"`
	IsRecurring bool   `json:"is_recurring"`
	IsShared    bool   `json:"is_shared"`
}

func (req budgetRequest) toDomain(userID int64) (core.Budget, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Budget{}, err
	}
	start, err := core.ParseDate(req.PeriodStart)
	if err != nil {
		return core.Budget{}, err
	}
	end, err := core.ParseDate(req.PeriodEnd)
	if err != nil {
		return core.Budget{}, err
	}

	b := core.Budget{
		UserID:      userID,
		Category:    req.Category,
		Amount:      amount,
		PeriodStart: start,
		PeriodEnd:   end,
		Recurrence:  core.Cadence(req.Recurrence),
		IsActive:    true,
		IsRecurring: req.IsRecurring,
		IsShared:    req.IsShared,
	}
	return b, b.Validate()
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := req.toDomain(userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	saved, err := s.store.CreateBudget(r.Context(), b)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetResponse(saved))
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	b, err := s.store.GetBudget(r.Context(), userID(r.Context()), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(b))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := req.toDomain(userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	b.ID = id

	// Preserve the stored activation state; updates cannot resurrect a
	// rolled-over budget.
	current, err := s.store.GetBudget(r.Context(), userID(r.Context()), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	b.IsActive = current.IsActive

	if err := s.store.UpdateBudget(r.Context(), b); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(b))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.store.DeleteBudget(r.Context(), userID(r.Context()), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	budgets, err := s.store.ListBudgets(r.Context(), userID(r.Context()), activeOnly)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleBudgetSpent reports the spend estimate for one budget's period
// and category, with the remaining headroom.
func (s *Server) handleBudgetSpent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	b, err := s.store.GetBudget(r.Context(), userID(r.Context()), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	spent, err := s.aggregator.BudgetSpent(r.Context(), b)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, budgetSpentResponse{
		Budget:        toBudgetResponse(b),
		Transactions:  money(spent.Transactions),
		Subscriptions: money(spent.Subscriptions),
		Total:         money(spent.Total),
		Remaining:     money(b.Amount.Sub(spent.Total)),
	})
}

// handleBudgetRollover runs the rollover pass for the acting user.
func (s *Server) handleBudgetRollover(w http.ResponseWriter, r *http.Request) {
	result, err := s.rollover.Rollover(r.Context(), userID(r.Context()), core.DateOf(s.now()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	deactivated := make([]budgetResponse, 0, len(result.Deactivated))
	for _, b := range result.Deactivated {
		deactivated = append(deactivated, toBudgetResponse(b))
	}
	created := make([]budgetResponse, 0, len(result.Created))
	for _, b := range result.Created {
		created = append(created, toBudgetResponse(b))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"deactivated": deactivated,
		"created":     created,
	})
}
