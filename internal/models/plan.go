package models

import "time"

// SubscriptionPlan is a store-owner-facing pricing tier. Read-only from the
// commission engine's perspective.
type SubscriptionPlan struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	MonthlyPrice  float64    `json:"monthly_price"`
	YearlyPrice   float64    `json:"yearly_price"`
	ProductLimit  int        `json:"product_limit"`
	OrderLimit    int        `json:"order_limit"`
	HasAnalytics  bool       `json:"has_analytics"`
	HasAIDesigner bool       `json:"has_ai_designer"`
	TrialDays     int        `json:"trial_days"`
	IsPopular     bool       `json:"is_popular"`
	Badge         string     `json:"badge,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)
