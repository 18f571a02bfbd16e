package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"dukanBack/internal/commission"
	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
)

func TestApplyHelperRate(t *testing.T) {
	base := commission.Resolved{
		Source: commission.SourceGlobal,
		Config: models.CommissionConfig{
			Model:     models.CommissionModelRecurring,
			Onetime:   models.RateComponent{Type: models.RateTypePercentage, Value: 10},
			Recurring: models.RateComponent{Type: models.RateTypePercentage, Value: 10},
			Duration:  12,
		},
	}

	t.Run("substitutes percentage components", func(t *testing.T) {
		got := applyHelperRate(base, 15)
		if got.Config.Onetime.Value != 15 || got.Config.Recurring.Value != 15 {
			t.Errorf("expected 15 on both components, got %+v", got.Config)
		}
		if base.Config.Recurring.Value != 10 {
			t.Errorf("input must not be mutated")
		}
	})

	t.Run("zero rate keeps config", func(t *testing.T) {
		got := applyHelperRate(base, 0)
		if got.Config.Recurring.Value != 10 {
			t.Errorf("zero personal rate must keep the configured value, got %v", got.Config.Recurring.Value)
		}
	})

	t.Run("fixed components untouched", func(t *testing.T) {
		fixed := base
		fixed.Config.Recurring = models.RateComponent{Type: models.RateTypeFixed, Value: 50}
		got := applyHelperRate(fixed, 15)
		if got.Config.Recurring.Value != 50 {
			t.Errorf("fixed component must stay at 50, got %v", got.Config.Recurring.Value)
		}
		if got.Config.Onetime.Value != 15 {
			t.Errorf("percentage component must still substitute, got %v", got.Config.Onetime.Value)
		}
	})

	t.Run("disabled stays disabled", func(t *testing.T) {
		got := applyHelperRate(commission.Resolved{Source: commission.SourceDisabled}, 15)
		if got.Source != commission.SourceDisabled {
			t.Errorf("disabled config must not come back to life")
		}
	})
}

func TestMarkPaid(t *testing.T) {
	t.Run("empty ids", func(t *testing.T) {
		svc := &CommissionService{}
		err := svc.MarkPaid(context.Background(), models.PayoutRequest{PaymentRef: "UTR123"})
		if !errors.Is(err, models.ErrCommissionNotFound) {
			t.Fatalf("err = %v, want ErrCommissionNotFound", err)
		}
	})

	t.Run("empty payment reference", func(t *testing.T) {
		svc := &CommissionService{}
		err := svc.MarkPaid(context.Background(), models.PayoutRequest{CommissionIDs: []int{1}})
		if !errors.Is(err, models.ErrEmptyPaymentReference) {
			t.Fatalf("err = %v, want ErrEmptyPaymentReference", err)
		}
	})

	t.Run("already paid id aborts the whole batch", func(t *testing.T) {
		db, fdb := newFakeDB(t)
		fdb.stubQuery("SELECT status FROM network_commissions", []string{"status"},
			[][]driver.Value{{string(models.CommissionStatusPending)}},
			[][]driver.Value{{string(models.CommissionStatusPaid)}})

		svc := &CommissionService{CommissionRepo: &repositories.CommissionRepository{DB: db}}
		err := svc.MarkPaid(context.Background(), models.PayoutRequest{CommissionIDs: []int{4, 9}, PaymentRef: "UTR123"})
		if !errors.Is(err, models.ErrCommissionAlreadyPaid) {
			t.Fatalf("err = %v, want ErrCommissionAlreadyPaid", err)
		}
		if got := fdb.count("UPDATE network_commissions"); got != 0 {
			t.Errorf("%d update statements ran on a rejected batch, want 0", got)
		}
	})

	t.Run("missing id aborts the whole batch", func(t *testing.T) {
		db, fdb := newFakeDB(t)
		fdb.stubQuery("SELECT status FROM network_commissions", []string{"status"},
			[][]driver.Value{{string(models.CommissionStatusPending)}},
			nil)

		svc := &CommissionService{CommissionRepo: &repositories.CommissionRepository{DB: db}}
		err := svc.MarkPaid(context.Background(), models.PayoutRequest{CommissionIDs: []int{4, 404}, PaymentRef: "UTR123"})
		if !errors.Is(err, models.ErrCommissionNotFound) {
			t.Fatalf("err = %v, want ErrCommissionNotFound", err)
		}
		if got := fdb.count("UPDATE network_commissions"); got != 0 {
			t.Errorf("%d update statements ran on a rejected batch, want 0", got)
		}
	})
}

func TestUpdatePlanOverride(t *testing.T) {
	pct := func(v float64) models.RateComponent {
		return models.RateComponent{Type: models.RateTypePercentage, Value: v}
	}

	t.Run("validation error blocks the save", func(t *testing.T) {
		db, fdb := newFakeDB(t)
		svc := &CommissionService{ConfigRepo: &repositories.CommissionConfigRepository{DB: db}}

		o := models.PlanOverride{
			Tier:    models.TierDirect,
			Enabled: true,
			Monthly: models.CommissionConfig{Model: models.CommissionModelOnetime, Onetime: pct(150)},
		}
		issues, err := svc.UpdatePlanOverride(context.Background(), 3, o)
		if err == nil {
			t.Fatalf("expected a validation error")
		}
		if !hasIssueLevel(issues, commission.LevelError) {
			t.Errorf("no error-level issue reported: %+v", issues)
		}
		if got := fdb.count("commission_configs"); got != 0 {
			t.Errorf("%d config statements ran on an invalid override, want 0", got)
		}
	})

	t.Run("enabled but all zero saves with a warning", func(t *testing.T) {
		db, fdb := newFakeDB(t)
		svc := &CommissionService{ConfigRepo: &repositories.CommissionConfigRepository{DB: db}}

		o := models.PlanOverride{
			Tier:    models.TierDirect,
			Enabled: true,
			Monthly: models.CommissionConfig{Model: models.CommissionModelOnetime, Onetime: pct(0)},
		}
		issues, err := svc.UpdatePlanOverride(context.Background(), 3, o)
		if err != nil {
			t.Fatalf("UpdatePlanOverride: %v", err)
		}
		if !hasIssueLevel(issues, commission.LevelWarning) {
			t.Errorf("expected the enabled-but-zero warning, got %+v", issues)
		}
		if got := fdb.count("INSERT INTO commission_configs"); got != 1 {
			t.Errorf("config inserted %d times, want 1", got)
		}
	})

	t.Run("toggle without configs only flips the flag", func(t *testing.T) {
		db, fdb := newFakeDB(t)
		svc := &CommissionService{ConfigRepo: &repositories.CommissionConfigRepository{DB: db}}

		o := models.PlanOverride{Tier: models.TierDirect, Enabled: false}
		if _, err := svc.UpdatePlanOverride(context.Background(), 3, o); err != nil {
			t.Fatalf("UpdatePlanOverride: %v", err)
		}
		if got := fdb.count("UPDATE plan_commission_overrides"); got != 1 {
			t.Errorf("flag updated %d times, want 1", got)
		}
		if got := fdb.count("INSERT INTO commission_configs"); got != 0 {
			t.Errorf("config inserted %d times on a toggle, want 0", got)
		}
	})
}

func hasIssueLevel(issues []commission.ConfigIssue, level commission.IssueLevel) bool {
	for _, issue := range issues {
		if issue.Level == level {
			return true
		}
	}
	return false
}
