package commission

import (
	"testing"

	"dukanBack/internal/models"
)

func TestResolve(t *testing.T) {
	global := pctConfig(models.CommissionModelRecurring, 0, 10, 12)
	monthly := pctConfig(models.CommissionModelOnetime, 15, 0, 0)
	yearly := pctConfig(models.CommissionModelOnetime, 20, 0, 0)

	t.Run("no override falls back to global", func(t *testing.T) {
		r := Resolve(nil, models.BillingCycleMonthly, global)
		if r.Source != SourceGlobal {
			t.Fatalf("expected global source, got %s", r.Source)
		}
		if r.Config.Recurring.Value != 10 {
			t.Fatalf("expected global config, got %+v", r.Config)
		}
	})

	t.Run("enabled override wins per billing cycle", func(t *testing.T) {
		o := &models.PlanOverride{Enabled: true, Monthly: monthly, Yearly: yearly}

		r := Resolve(o, models.BillingCycleMonthly, global)
		if r.Source != SourcePlan || r.Config.Onetime.Value != 15 {
			t.Fatalf("expected monthly override, got %s %+v", r.Source, r.Config)
		}

		r = Resolve(o, models.BillingCycleYearly, global)
		if r.Source != SourcePlan || r.Config.Onetime.Value != 20 {
			t.Fatalf("expected yearly override, got %s %+v", r.Source, r.Config)
		}
	})

	t.Run("disabled override does not fall back", func(t *testing.T) {
		o := &models.PlanOverride{Enabled: false, Monthly: monthly, Yearly: yearly}
		r := Resolve(o, models.BillingCycleMonthly, global)
		if r.Source != SourceDisabled {
			t.Fatalf("expected disabled source, got %s", r.Source)
		}

		// A disabled Enterprise override yields zero even with a 10% global.
		got := Compute(purchasedReferral(5000), 1, r, noNetwork)
		if got.Direct != 0 {
			t.Fatalf("expected 0 commission on disabled plan, got %v", got.Direct)
		}
	})
}
