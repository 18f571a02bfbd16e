package models

import "time"

type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "earned_pending"
	CommissionStatusPaid    CommissionStatus = "paid"
)

// Commission is one computed commission event. NetworkAmount is nonzero only
// when the earning helper recruited the referring helper. The pending → paid
// transition happens exactly once, via an admin payout carrying a reference.
type Commission struct {
	ID            int              `json:"id"`
	HelperID      int              `json:"helper_id"`
	ReferralID    int              `json:"referral_id"`
	DirectAmount  float64          `json:"direct_amount"`
	NetworkAmount float64          `json:"network_amount"`
	Period        int              `json:"period"`
	Status        CommissionStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	PaidAt        *time.Time       `json:"paid_at,omitempty"`
	PaymentRef    *string          `json:"payment_ref,omitempty"`
}

type PayoutRequest struct {
	CommissionIDs []int     `json:"commission_ids"`
	PaidAt        time.Time `json:"paid_at"`
	PaymentRef    string    `json:"payment_ref"`
}
