package http

import (
	"net/http"

	"fintrack/internal/core"
)

type transactionRequest struct {
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func (req transactionRequest) toDomain(userID int64) (core.Transaction, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	day, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		UserID:      userID,
		Amount:      amount,
		Category:    req.Category,
		Date:        day,
		Description: req.Description,
	}
	return t, t.Validate()
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := req.toDomain(userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	saved, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionResponse(saved))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := s.store.GetTransaction(r.Context(), userID(r.Context()), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := req.toDomain(userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	t.ID = id

	if err := s.store.UpdateTransaction(r.Context(), t); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), userID(r.Context()), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListTransactions lists within from/to bounds, or a rolling
// period when the period parameter is present.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid date bounds")
		return
	}
	if r.URL.Query().Has("period") {
		rng = core.ResolvePeriod(queryPeriod(r), s.now())
	}

	transactions, err := s.store.ListTransactions(r.Context(), userID(r.Context()), rng)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, out)
}
