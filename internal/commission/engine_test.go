package commission

import (
	"testing"
	"time"

	"dukanBack/internal/models"
)

func pctConfig(model models.CommissionModel, onetime, recurring float64, duration int) models.CommissionConfig {
	return models.CommissionConfig{
		Model:     model,
		Onetime:   models.RateComponent{Type: models.RateTypePercentage, Value: onetime},
		Recurring: models.RateComponent{Type: models.RateTypePercentage, Value: recurring},
		Duration:  duration,
	}
}

func fixedConfig(model models.CommissionModel, onetime, recurring float64, duration int) models.CommissionConfig {
	return models.CommissionConfig{
		Model:     model,
		Onetime:   models.RateComponent{Type: models.RateTypeFixed, Value: onetime},
		Recurring: models.RateComponent{Type: models.RateTypeFixed, Value: recurring},
		Duration:  duration,
	}
}

func purchasedReferral(amount float64) models.StoreReferral {
	now := time.Now()
	return models.StoreReferral{
		ID:                    1,
		HelperID:              1,
		SubscriptionPurchased: true,
		PlanName:              "Growth",
		PlanAmount:            amount,
		BillingCycle:          models.BillingCycleMonthly,
		PurchasedAt:           &now,
	}
}

var noNetwork = Resolved{Source: SourceDisabled}

func TestOnetimePaysFirstPeriodOnly(t *testing.T) {
	direct := Resolved{Source: SourceGlobal, Config: pctConfig(models.CommissionModelOnetime, 10, 0, 0)}
	ref := purchasedReferral(999)

	if got := Compute(ref, 1, direct, noNetwork).Direct; got != 99.9 {
		t.Fatalf("period 1: expected 99.9 got %v", got)
	}
	for _, period := range []int{2, 3, 12, 100} {
		if got := Compute(ref, period, direct, noNetwork).Direct; got != 0 {
			t.Fatalf("period %d: expected 0 got %v", period, got)
		}
	}
}

func TestRecurringWindow(t *testing.T) {
	const duration = 12
	direct := Resolved{Source: SourceGlobal, Config: pctConfig(models.CommissionModelRecurring, 0, 10, duration)}
	ref := purchasedReferral(999)

	for period := 1; period <= duration; period++ {
		if got := Compute(ref, period, direct, noNetwork).Direct; got != 99.9 {
			t.Fatalf("period %d: expected 99.90 got %v", period, got)
		}
	}
	if got := Compute(ref, duration+1, direct, noNetwork).Direct; got != 0 {
		t.Fatalf("period %d: expected 0 got %v", duration+1, got)
	}
}

func TestHybridWindowsAreSequential(t *testing.T) {
	const duration = 6
	direct := Resolved{Source: SourceGlobal, Config: fixedConfig(models.CommissionModelHybrid, 500, 50, duration)}
	ref := purchasedReferral(999)

	if got := Compute(ref, 1, direct, noNetwork).Direct; got != 500 {
		t.Fatalf("period 1 should pay only the one-time component, got %v", got)
	}
	for period := 2; period <= duration+1; period++ {
		if got := Compute(ref, period, direct, noNetwork).Direct; got != 50 {
			t.Fatalf("period %d should pay the recurring component, got %v", period, got)
		}
	}
	if got := Compute(ref, duration+2, direct, noNetwork).Direct; got != 0 {
		t.Fatalf("period %d: expected 0 got %v", duration+2, got)
	}
}

func TestPercentageIsLinearInAmount(t *testing.T) {
	direct := Resolved{Source: SourceGlobal, Config: pctConfig(models.CommissionModelRecurring, 0, 7.5, 12)}

	base := Compute(purchasedReferral(200), 3, direct, noNetwork).Direct
	scaled := Compute(purchasedReferral(600), 3, direct, noNetwork).Direct
	if scaled != base*3 {
		t.Fatalf("expected linear scaling: %v vs %v", scaled, base*3)
	}
}

func TestFixedIsAmountIndependent(t *testing.T) {
	direct := Resolved{Source: SourceGlobal, Config: fixedConfig(models.CommissionModelRecurring, 0, 250, 12)}

	small := Compute(purchasedReferral(100), 1, direct, noNetwork).Direct
	large := Compute(purchasedReferral(100000), 1, direct, noNetwork).Direct
	if small != 250 || large != 250 {
		t.Fatalf("fixed rate should ignore amount, got %v and %v", small, large)
	}
}

func TestNetworkRunsOnDirectCommission(t *testing.T) {
	// Recruit earns a fixed 100; recruiter's network tier is recurring 5%.
	direct := Resolved{Source: SourceGlobal, Config: fixedConfig(models.CommissionModelRecurring, 0, 100, 12)}
	network := Resolved{Source: SourceGlobal, Config: pctConfig(models.CommissionModelRecurring, 0, 5, 12)}

	got := Compute(purchasedReferral(999), 1, direct, network)
	if got.Direct != 100 {
		t.Fatalf("expected direct 100 got %v", got.Direct)
	}
	if got.Network != 5 {
		t.Fatalf("expected network 5 got %v", got.Network)
	}
}

func TestNetworkZeroWhenDirectZero(t *testing.T) {
	direct := Resolved{Source: SourceDisabled}
	network := Resolved{Source: SourceGlobal, Config: pctConfig(models.CommissionModelRecurring, 0, 5, 12)}

	got := Compute(purchasedReferral(999), 1, direct, network)
	if got.Direct != 0 || got.Network != 0 {
		t.Fatalf("disabled direct tier must zero both amounts, got %+v", got)
	}
}

func TestUnpurchasedReferralPaysNothing(t *testing.T) {
	direct := Resolved{Source: SourceGlobal, Config: pctConfig(models.CommissionModelOnetime, 10, 0, 0)}
	ref := purchasedReferral(999)
	ref.SubscriptionPurchased = false

	if got := Compute(ref, 1, direct, noNetwork); got.Direct != 0 || got.Network != 0 {
		t.Fatalf("expected zero breakdown, got %+v", got)
	}
}

func TestMonthlyScenario(t *testing.T) {
	// 10% recurring over 12 months on a 999/month plan: 99.90 through month
	// 12, zero at month 13.
	direct := Resolved{Source: SourceGlobal, Config: pctConfig(models.CommissionModelRecurring, 0, 10, 12)}
	ref := purchasedReferral(999)

	cases := []struct {
		period int
		want   float64
	}{
		{1, 99.9},
		{12, 99.9},
		{13, 0},
	}
	for _, tc := range cases {
		if got := Compute(ref, tc.period, direct, noNetwork).Direct; got != tc.want {
			t.Fatalf("month %d: expected %v got %v", tc.period, tc.want, got)
		}
	}
}
