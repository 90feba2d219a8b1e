package http

import (
	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// Wire representation: amounts as display-rounded decimal strings, dates
// as YYYY-MM-DD, empty string for unset dates.

func money(d decimal.Decimal) string {
	return core.DisplayAmount(d).String()
}

func date(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      money(t.Amount),
		Category:    t.Category,
		Date:        date(t.Date),
		Description: t.Description,
	}
}

type subscriptionResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	Category     string `json:"category"`
	BillingCycle string `json:"billing_cycle"`
	BillingDay   int    `json:"billing_day"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
	Status       string `json:"status"`
	Description  string `json:"description"`
}

func toSubscriptionResponse(s core.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:           s.ID,
		Name:         s.Name,
		Amount:       money(s.Amount),
		Category:     s.Category,
		BillingCycle: string(s.BillingCycle),
		BillingDay:   s.BillingDay,
		StartDate:    date(s.StartDate),
		EndDate:      date(s.EndDate),
		Status:       string(s.Status),
		Description:  s.Description,
	}
}

type paymentResponse struct {
	ID             int64  `json:"id"`
	SubscriptionID int64  `json:"subscription_id"`
	Amount         string `json:"amount"`
	Date           string `json:"date"`
	IsPaid         bool   `json:"is_paid"`
	PaidDate       string `json:"paid_date,omitempty"`
}

func toPaymentResponse(p core.SubscriptionPayment) paymentResponse {
	return paymentResponse{
		ID:             p.ID,
		SubscriptionID: p.SubscriptionID,
		Amount:         money(p.Amount),
		Date:           date(p.Date),
		IsPaid:         p.IsPaid,
		PaidDate:       date(p.PaidDate),
	}
}

type paymentDetailResponse struct {
	paymentResponse
	Name     string `json:"name"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

func toPaymentDetailResponse(d core.PaymentDetail) paymentDetailResponse {
	return paymentDetailResponse{
		paymentResponse: toPaymentResponse(d.Payment),
		Name:            d.Name,
		Category:        d.Category,
		Status:          string(d.Status),
	}
}

type budgetResponse struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Recurrence  string `json:"recurrence,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsRecurring bool   `json:"is_recurring"`
	IsShared    bool   `json:"is_shared"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		Category:    b.Category,
		Amount:      money(b.Amount),
		PeriodStart: date(b.PeriodStart),
		PeriodEnd:   date(b.PeriodEnd),
		Recurrence:  string(b.Recurrence),
		IsActive:    b.IsActive,
		IsRecurring: b.IsRecurring,
		IsShared:    b.IsShared,
	}
}

type incomeResponse struct {
	ID           int64  `json:"id"`
	Amount       string `json:"amount"`
	Source       string `json:"source"`
	DateReceived string `json:"date_received"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
}

func toIncomeResponse(i core.Income) incomeResponse {
	return incomeResponse{
		ID:           i.ID,
		Amount:       money(i.Amount),
		Source:       i.Source,
		DateReceived: date(i.DateReceived),
		PeriodStart:  date(i.PeriodStart),
		PeriodEnd:    date(i.PeriodEnd),
	}
}

type spentBreakdownResponse struct {
	Total         string `json:"total"`
	Transactions  string `json:"transactions"`
	Subscriptions string `json:"subscriptions"`
}

func toSpentBreakdownResponse(b core.SpentBreakdown) spentBreakdownResponse {
	return spentBreakdownResponse{
		Total:         money(b.Total),
		Transactions:  money(b.Transactions),
		Subscriptions: money(b.Subscriptions),
	}
}

type categorySpendResponse struct {
	Category      string  `json:"category"`
	Total         string  `json:"total"`
	Transactions  string  `json:"transactions"`
	Subscriptions string  `json:"subscriptions"`
	Percentage    float64 `json:"percentage"`
}

type categoryBreakdownResponse struct {
	Total             string                  `json:"total"`
	TransactionTotal  string                  `json:"transaction_total"`
	SubscriptionTotal string                  `json:"subscription_total"`
	Categories        []categorySpendResponse `json:"categories"`
}

func toCategoryBreakdownResponse(b core.CategoryBreakdown) categoryBreakdownResponse {
	out := categoryBreakdownResponse{
		Total:             money(b.Total),
		TransactionTotal:  money(b.TransactionTotal),
		SubscriptionTotal: money(b.SubscriptionTotal),
		Categories:        make([]categorySpendResponse, 0, len(b.Categories)),
	}
	for _, c := range b.Categories {
		out.Categories = append(out.Categories, categorySpendResponse{
			Category:      c.Category,
			Total:         money(c.Total),
			Transactions:  money(c.Transactions),
			Subscriptions: money(c.Subscriptions),
			Percentage:    c.Percentage,
		})
	}
	return out
}

type budgetSpentResponse struct {
	Budget        budgetResponse `json:"budget"`
	Transactions  string         `json:"transactions"`
	Subscriptions string         `json:"subscriptions"`
	Total         string         `json:"total"`
	Remaining     string         `json:"remaining"`
}

type periodTotalsResponse struct {
	Income           string                 `json:"income"`
	Spent            spentBreakdownResponse `json:"spent"`
	Remaining        string                 `json:"remaining"`
	PercentRemaining float64                `json:"percent_remaining"`
	IsNegative       bool                   `json:"is_negative"`
}

func toPeriodTotalsResponse(t core.PeriodTotals) periodTotalsResponse {
	return periodTotalsResponse{
		Income:           money(t.Income),
		Spent:            toSpentBreakdownResponse(t.Spent),
		Remaining:        money(t.Remaining),
		PercentRemaining: t.PercentRemaining,
		IsNegative:       t.IsNegative,
	}
}

type incomeSummaryResponse struct {
	AllTime    periodTotalsResponse `json:"all_time"`
	ThisMonth  periodTotalsResponse `json:"this_month"`
	MonthStart string               `json:"month_start"`
	MonthEnd   string               `json:"month_end"`
}

type sourceIncomeResponse struct {
	Source string `json:"source"`
	Total  string `json:"total"`
}

type monthlyIncomeResponse struct {
	Year   int        `json:"year"`
	Months [12]string `json:"months"`
	Total  string     `json:"total"`
}

type dashboardResponse struct {
	Period     string                    `json:"period"`
	Label      string                    `json:"label"`
	From       string                    `json:"from,omitempty"`
	To         string                    `json:"to,omitempty"`
	Income     string                    `json:"income"`
	Spending   spentBreakdownResponse    `json:"spending"`
	Remaining  string                    `json:"remaining"`
	Categories categoryBreakdownResponse `json:"categories"`
}

type subscriptionSummaryResponse struct {
	ActiveCount    int    `json:"active_count"`
	InactiveCount  int    `json:"inactive_count"`
	MonthlyCost    string `json:"monthly_cost"`
	ThisMonthTotal string `json:"this_month_total"`
}

type paymentTotalsResponse struct {
	Total         string `json:"total"`
	ActiveTotal   string `json:"active_total"`
	InactiveTotal string `json:"inactive_total"`
	PaymentCount  int    `json:"payment_count"`
	ActiveCount   int    `json:"active_subscriptions"`
	InactiveCount int    `json:"inactive_subscriptions"`
}
