package commission

import (
	"math"

	"dukanBack/internal/models"
)

// Breakdown is the amount owed per tier for one billing period.
type Breakdown struct {
	Direct  float64 `json:"direct"`
	Network float64 `json:"network"`
}

// componentAmount prices a single rate component against a purchase amount.
func componentAmount(c models.RateComponent, amount float64) float64 {
	switch c.Type {
	case models.RateTypePercentage:
		return round2(amount * c.Value / 100)
	case models.RateTypeFixed:
		return c.Value
	default:
		return 0
	}
}

// periodAmount applies the model's period window. Periods are 1-based: the
// first paid period is 1. Hybrid pays the one-time component on period 1 and
// the recurring component on periods 2..duration+1 — the windows are
// sequential, so a duration-D hybrid stops after period D+1.
func periodAmount(cfg models.CommissionConfig, amount float64, period int) float64 {
	if period < 1 {
		return 0
	}
	switch cfg.Model {
	case models.CommissionModelOnetime:
		if period == 1 {
			return componentAmount(cfg.Onetime, amount)
		}
		return 0
	case models.CommissionModelRecurring:
		if period <= cfg.Duration {
			return componentAmount(cfg.Recurring, amount)
		}
		return 0
	case models.CommissionModelHybrid:
		if period == 1 {
			return componentAmount(cfg.Onetime, amount)
		}
		if period <= cfg.Duration+1 {
			return componentAmount(cfg.Recurring, amount)
		}
		return 0
	default:
		return 0
	}
}

// Compute prices one billing period of a converted referral. The direct tier
// runs against the purchase amount; the network tier runs against the
// referring helper's direct commission, so a recruiter earns a cut of the
// recruit's earnings rather than of the sale itself. Either resolved config
// may be disabled, in which case its tier pays zero.
func Compute(referral models.StoreReferral, period int, direct Resolved, network Resolved) Breakdown {
	var out Breakdown
	if !referral.SubscriptionPurchased {
		return out
	}
	if direct.Source != SourceDisabled {
		out.Direct = periodAmount(direct.Config, referral.PlanAmount, period)
	}
	if out.Direct > 0 && network.Source != SourceDisabled {
		out.Network = periodAmount(network.Config, out.Direct, period)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
