package amqp

import (
	"encoding/json"
	"time"
)

// PaymentPostedMessage announces a newly materialized ledger payment.
// It carries identifiers only; consumers fetch the full record from the
// database if they need more than the routing facts.
type PaymentPostedMessage struct {
	PaymentID      int64     `json:"payment_id"`
	SubscriptionID int64     `json:"subscription_id"`
	Amount         string    `json:"amount"`
	Date           string    `json:"date"`
	Timestamp      time.Time `json:"timestamp"`
}

// BudgetRolloverMessage announces that an expired budget was replaced by
// a successor period.
type BudgetRolloverMessage struct {
	ExpiredBudgetID int64     `json:"expired_budget_id"`
	NewBudgetID     int64     `json:"new_budget_id"`
	UserID          int64     `json:"user_id"`
	Category        string    `json:"category"`
	PeriodStart     string    `json:"period_start"`
	PeriodEnd       string    `json:"period_end"`
	Timestamp       time.Time `json:"timestamp"`
}

func (m *PaymentPostedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *BudgetRolloverMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentPostedMessageFromJSON(data []byte) (*PaymentPostedMessage, error) {
	var msg PaymentPostedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func BudgetRolloverMessageFromJSON(data []byte) (*BudgetRolloverMessage, error) {
	var msg BudgetRolloverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
