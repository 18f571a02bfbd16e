package models

import "time"

type TrialStatus string

const (
	TrialStatusActive  TrialStatus = "active"
	TrialStatusExpired TrialStatus = "expired"
)

// StoreReferral records that a helper referred a store signup. Owner fields
// are denormalized at signup time and never rewritten afterwards.
type StoreReferral struct {
	ID          int         `json:"id"`
	HelperID    int         `json:"helper_id"`
	StoreID     int         `json:"store_id"`
	OwnerName   string      `json:"owner_name"`
	OwnerEmail  string      `json:"owner_email"`
	OwnerPhone  string      `json:"owner_phone"`
	SignedUpAt  time.Time   `json:"signed_up_at"`
	TrialStatus TrialStatus `json:"trial_status"`
	TrialEndsAt time.Time   `json:"trial_ends_at"`

	SubscriptionPurchased bool       `json:"subscription_purchased"`
	PlanName              string     `json:"plan_name,omitempty"`
	PlanAmount            float64    `json:"plan_amount,omitempty"`
	BillingCycle          string     `json:"billing_cycle,omitempty"`
	PurchasedAt           *time.Time `json:"purchased_at,omitempty"`
}
