package models

import "time"

type CommissionModel string

const (
	CommissionModelOnetime   CommissionModel = "onetime"
	CommissionModelRecurring CommissionModel = "recurring"
	CommissionModelHybrid    CommissionModel = "hybrid"
)

type RateType string

const (
	RateTypePercentage RateType = "percentage"
	RateTypeFixed      RateType = "fixed"
)

type CommissionTier string

const (
	TierDirect  CommissionTier = "direct"
	TierNetwork CommissionTier = "network"
)

// RateComponent is one leg of a commission config. Percentage values live in
// [0,100]; fixed values are paid verbatim regardless of the purchase amount.
type RateComponent struct {
	Type  RateType `json:"type"`
	Value float64  `json:"value"`
}

// CommissionConfig is the rule set used to price a commission. Duration is
// counted in billing periods and only meaningful for recurring and hybrid
// models.
type CommissionConfig struct {
	ID        int             `json:"id"`
	Tier      CommissionTier  `json:"tier"`
	Model     CommissionModel `json:"model"`
	Onetime   RateComponent   `json:"onetime"`
	Recurring RateComponent   `json:"recurring"`
	Duration  int             `json:"duration"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// PlanOverride is a plan-scoped commission config. A row that exists with
// Enabled=false means the plan deliberately pays no commission; it is not a
// fallback to the global config.
type PlanOverride struct {
	ID       int              `json:"id"`
	PlanID   int              `json:"plan_id"`
	Tier     CommissionTier   `json:"tier"`
	Enabled  bool             `json:"enabled"`
	Monthly  CommissionConfig `json:"monthly"`
	Yearly   CommissionConfig `json:"yearly"`
}
