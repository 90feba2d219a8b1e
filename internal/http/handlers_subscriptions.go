package http

import (
	"net/http"

	"fintrack/internal/core"
)

type subscriptionRequest struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	Category     string `json:"category"`
	BillingCycle string `json:"billing_cycle"`
	BillingDay   int    `json:"billing_day"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status"`
	Description  string `json:"description"`
}

func (req subscriptionRequest) toDomain(userID int64) (core.Subscription, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Subscription{}, err
	}
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.Subscription{}, err
	}

	sub := core.Subscription{
		UserID:       userID,
		Name:         req.Name,
		Amount:       amount,
		Category:     req.Category,
		BillingCycle: core.Cadence(req.BillingCycle),
		BillingDay:   req.BillingDay,
		StartDate:    start,
		Status:       core.SubscriptionStatus(req.Status),
		Description:  req.Description,
	}
	if req.Status == "" {
		sub.Status = core.StatusActive
	}
	if req.BillingDay == 0 {
		sub.BillingDay = start.Day()
	}
	if req.EndDate != "" {
		end, err := core.ParseDate(req.EndDate)
		if err != nil {
			return core.Subscription{}, err
		}
		sub.EndDate = end
	}
	return sub, sub.Validate()
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := req.toDomain(userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	saved, err := s.store.CreateSubscription(r.Context(), sub)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSubscriptionResponse(saved))
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	sub, err := s.store.GetSubscription(r.Context(), userID(r.Context()), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := req.toDomain(userID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	sub.ID = id

	if err := s.store.UpdateSubscription(r.Context(), sub); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.store.DeleteSubscription(r.Context(), userID(r.Context()), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	var statuses []core.SubscriptionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := core.ParseSubscriptionStatus(raw)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		statuses = append(statuses, status)
	}

	subs, err := s.store.ListSubscriptions(r.Context(), userID(r.Context()), statuses...)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubscriptionResponse(sub))
	}
	respondJSON(w, http.StatusOK, out)
}

type statusRequest struct {
	Status string `json:"status"`
}

// handleSubscriptionStatus applies a lifecycle transition. Cancelling
// stamps the end date, reactivating clears it.
func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := s.subscriptions.SetStatus(r.Context(), userID(r.Context()), id, core.SubscriptionStatus(req.Status), s.now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

// handleGeneratePayments materializes the subscription's due payments up
// to today. Safe to call repeatedly.
func (s *Server) handleGeneratePayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	sub, err := s.store.GetSubscription(r.Context(), userID(r.Context()), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	created, err := s.ledger.GenerateForSubscription(r.Context(), sub, core.DateOf(s.now()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]paymentResponse, 0, len(created))
	for _, p := range created {
		out = append(out, toPaymentResponse(p))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"created":  len(created),
		"payments": out,
	})
}

func (s *Server) handleSubscriptionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.aggregator.SubscriptionSummary(r.Context(), userID(r.Context()), s.now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, subscriptionSummaryResponse{
		ActiveCount:    summary.ActiveCount,
		InactiveCount:  summary.InactiveCount,
		MonthlyCost:    money(summary.MonthlyCost),
		ThisMonthTotal: money(summary.ThisMonthTotal),
	})
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid date bounds")
		return
	}
	if r.URL.Query().Has("period") {
		rng = core.ResolvePeriod(queryPeriod(r), s.now())
	}

	details, err := s.store.ListPaymentDetails(r.Context(), userID(r.Context()), rng)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]paymentDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toPaymentDetailResponse(d))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handlePaymentsForPeriod(w http.ResponseWriter, r *http.Request) {
	totals, err := s.aggregator.PaymentsForPeriod(r.Context(), userID(r.Context()), queryPeriod(r), s.now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, paymentTotalsResponse{
		Total:         money(totals.Total),
		ActiveTotal:   money(totals.ActiveTotal),
		InactiveTotal: money(totals.InactiveTotal),
		PaymentCount:  totals.PaymentCount,
		ActiveCount:   totals.ActiveCount,
		InactiveCount: totals.InactiveCount,
	})
}

type paidRequest struct {
	IsPaid bool `json:"is_paid"`
}

func (s *Server) handleSetPaymentPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req paidRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := s.subscriptions.SetPaymentPaid(r.Context(), userID(r.Context()), id, req.IsPaid, s.now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPaymentResponse(payment))
}
