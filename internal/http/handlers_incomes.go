package http

import (
	"net/http"
	"strconv"

	"fintrack/internal/core"
)

type incomeRequest struct {
	Amount       string `json:"amount"`
	Source       string `json:"source"`
	DateReceived string `json:"date_received"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
}

func (req incomeRequest) toDomain(userID int64) (core.Income, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Income{}, err
	}
	received, err := core.ParseDate(req.DateReceived)
	if err != nil {
		return core.Income{}, err
	}
	start, err := core.ParseDate(req.PeriodStart)
	if err != nil {
		return core.Income{}, err
	}
	end, err := core.ParseDate(req.PeriodEnd)
	if err != nil {
		return core.Income{}, err
	}

	i := core.Income{
		UserID:       userID,
		Amount:       amount,
		Source:       req.Source,
		DateReceived: received,
		PeriodStart:  start,
		PeriodEnd:    end,
	}
	return i, i.Validate()
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	i, err := req.toDomain(userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	saved, err := s.store.CreateIncome(r.Context(), i)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toIncomeResponse(saved))
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	i, err := s.store.GetIncome(r.Context(), userID(r.Context()), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toIncomeResponse(i))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	i, err := req.toDomain(userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	i.ID = id

	if err := s.store.UpdateIncome(r.Context(), i); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toIncomeResponse(i))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.store.DeleteIncome(r.Context(), userID(r.Context()), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid date bounds")
		return
	}

	incomes, err := s.store.ListIncomes(r.Context(), userID(r.Context()), rng)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]incomeResponse, 0, len(incomes))
	for _, i := range incomes {
		out = append(out, toIncomeResponse(i))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleIncomeSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.aggregator.IncomeSummary(r.Context(), userID(r.Context()), s.now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, incomeSummaryResponse{
		AllTime:    toPeriodTotalsResponse(summary.AllTime),
		ThisMonth:  toPeriodTotalsResponse(summary.ThisMonth),
		MonthStart: date(summary.MonthStart),
		MonthEnd:   date(summary.MonthEnd),
	})
}

func (s *Server) handleIncomeBySource(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid date bounds")
		return
	}

	sources, err := s.aggregator.IncomeBySource(r.Context(), userID(r.Context()), rng)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]sourceIncomeResponse, 0, len(sources))
	for _, src := range sources {
		out = append(out, sourceIncomeResponse{Source: src.Source, Total: money(src.Total)})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlyIncome(w http.ResponseWriter, r *http.Request) {
	year := s.now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}

	series, err := s.aggregator.MonthlyIncome(r.Context(), userID(r.Context()), year)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := monthlyIncomeResponse{Year: series.Year, Total: money(series.Total)}
	for i, m := range series.Months {
		out.Months[i] = money(m)
	}
	respondJSON(w, http.StatusOK, out)
}
