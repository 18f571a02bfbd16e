package commission

import "dukanBack/internal/models"

// Source tags where a resolved config came from, so the disabled-override
// rule stays visible to callers instead of collapsing into a zero rate.
type Source string

const (
	SourcePlan     Source = "plan"
	SourceGlobal   Source = "global"
	SourceDisabled Source = "disabled"
)

// Resolved is a commission config together with its provenance.
type Resolved struct {
	Source Source
	Config models.CommissionConfig
}

// Resolve picks the config that applies to a plan for one tier. Precedence:
// an enabled plan override (monthly or yearly sub-config per the billing
// cycle) beats the global tier default. An override row that exists but is
// disabled means the plan deliberately pays nothing — it does not fall back
// to the global default.
func Resolve(override *models.PlanOverride, billingCycle string, global models.CommissionConfig) Resolved {
	if override != nil {
		if !override.Enabled {
			return Resolved{Source: SourceDisabled}
		}
		cfg := override.Monthly
		if billingCycle == models.BillingCycleYearly {
			cfg = override.Yearly
		}
		return Resolved{Source: SourcePlan, Config: cfg}
	}
	return Resolved{Source: SourceGlobal, Config: global}
}
