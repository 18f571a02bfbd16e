package models

import "time"

type HelperStatus string

const (
	HelperStatusActive    HelperStatus = "active"
	HelperStatusSuspended HelperStatus = "suspended"
)

// Helper is a referral-network participant. RecruiterID points at the helper
// who recruited this one; the chain must stay acyclic.
type Helper struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	ReferralCode string       `json:"referral_code"`
	Status       HelperStatus `json:"status"`
	DirectRate   float64      `json:"direct_rate"`
	NetworkRate  float64      `json:"network_rate"`
	RecruiterID  *int         `json:"recruiter_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty"`
}

// HelperStats is recomputed from commission rows on every view.
type HelperStats struct {
	HelperID           int     `json:"helper_id"`
	TotalEarned        float64 `json:"total_earned"`
	TotalPaid          float64 `json:"total_paid"`
	TotalPending       float64 `json:"total_pending"`
	ReferralCount      int     `json:"referral_count"`
	RecruitedCount     int     `json:"recruited_count"`
	ConversionRatePct  int     `json:"conversion_rate_pct"`
}

type HelperApplication struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	RecruiterID *int   `json:"recruiter_id,omitempty"`
}
