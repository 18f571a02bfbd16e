package models

import "time"

type TransactionStatus string

const (
	TransactionStatusCreated  TransactionStatus = "created"
	TransactionStatusPaid     TransactionStatus = "paid"
	TransactionStatusFailed   TransactionStatus = "failed"
)

type TransactionKind string

const (
	TransactionKindSubscription TransactionKind = "subscription"
	TransactionKindTokenPack    TransactionKind = "token_pack"
)

type Transaction struct {
	ID           int               `json:"id"`
	StoreID      int               `json:"store_id"`
	Kind         TransactionKind   `json:"kind"`
	Amount       float64           `json:"amount"`
	Currency     string            `json:"currency"`
	PlanID       *int              `json:"plan_id,omitempty"`
	BillingCycle string            `json:"billing_cycle,omitempty"`
	TokenCount   int               `json:"token_count,omitempty"`
	OrderID      string            `json:"order_id,omitempty"`
	PaymentID    string            `json:"payment_id,omitempty"`
	Status       TransactionStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    *time.Time        `json:"updated_at,omitempty"`
}
