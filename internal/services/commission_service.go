package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"dukanBack/internal/commission"
	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
)

// PayoutNotifier is implemented by the FCM service; payouts must not fail
// because a push could not be delivered.
type PayoutNotifier interface {
	PayoutLanded(ctx context.Context, helperID int, amount float64, paymentRef string)
}

type CommissionService struct {
	CommissionRepo *repositories.CommissionRepository
	ConfigRepo     *repositories.CommissionConfigRepository
	HelperRepo     *repositories.HelperRepository
	ReferralRepo   *repositories.ReferralRepository
	PlanRepo       *repositories.PlanRepository
	Notifier       PayoutNotifier
}

// RecordConversion marks the referral as purchased and creates the first
// commission period for the referring helper and, when that helper was
// recruited, the recruiter.
func (s *CommissionService) RecordConversion(ctx context.Context, referralID int, plan models.SubscriptionPlan, billingCycle string, now time.Time) error {
	amount := plan.MonthlyPrice
	if billingCycle == models.BillingCycleYearly {
		amount = plan.YearlyPrice
	}

	if err := s.ReferralRepo.MarkPurchased(ctx, referralID, plan.Name, amount, billingCycle, now); err != nil {
		return err
	}
	referral, err := s.ReferralRepo.GetReferralByID(ctx, referralID)
	if err != nil {
		return err
	}
	return s.createPeriod(ctx, referral, &plan, 1)
}

// RecordRenewal creates the commission rows for the next billing period of an
// already-converted referral. LatestPeriod keeps the call idempotent against
// double-fired renewal webhooks.
func (s *CommissionService) RecordRenewal(ctx context.Context, referralID int) error {
	referral, err := s.ReferralRepo.GetReferralByID(ctx, referralID)
	if err != nil {
		return err
	}
	if !referral.SubscriptionPurchased {
		return models.ErrReferralNotFound
	}

	plan, err := s.planForReferral(ctx, referral)
	if err != nil {
		return err
	}
	latest, err := s.CommissionRepo.LatestPeriod(ctx, referral.ID, referral.HelperID)
	if err != nil {
		return err
	}
	return s.createPeriod(ctx, referral, plan, latest+1)
}

func (s *CommissionService) planForReferral(ctx context.Context, referral models.StoreReferral) (*models.SubscriptionPlan, error) {
	if referral.PlanName == "" {
		return nil, nil
	}
	plan, err := s.PlanRepo.GetPlanByName(ctx, referral.PlanName)
	if err == models.ErrPlanNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *CommissionService) createPeriod(ctx context.Context, referral models.StoreReferral, plan *models.SubscriptionPlan, period int) error {
	helper, err := s.HelperRepo.GetHelperByID(ctx, referral.HelperID)
	if err != nil {
		return err
	}

	direct, err := s.resolveFor(ctx, plan, referral.BillingCycle, models.TierDirect)
	if err != nil {
		return err
	}
	direct = applyHelperRate(direct, helper.DirectRate)

	network := commission.Resolved{Source: commission.SourceDisabled}
	var recruiter models.Helper
	if helper.RecruiterID != nil {
		recruiter, err = s.HelperRepo.GetHelperByID(ctx, *helper.RecruiterID)
		if err != nil {
			return err
		}
		network, err = s.resolveFor(ctx, plan, referral.BillingCycle, models.TierNetwork)
		if err != nil {
			return err
		}
		network = applyHelperRate(network, recruiter.NetworkRate)
	}

	breakdown := commission.Compute(referral, period, direct, network)
	if breakdown.Direct == 0 && breakdown.Network == 0 {
		return nil
	}

	if breakdown.Direct > 0 {
		_, err = s.CommissionRepo.CreateCommission(ctx, models.Commission{
			HelperID:     helper.ID,
			ReferralID:   referral.ID,
			DirectAmount: breakdown.Direct,
			Period:       period,
			Status:       models.CommissionStatusPending,
		})
		if err != nil {
			return err
		}
	}
	if breakdown.Network > 0 {
		_, err = s.CommissionRepo.CreateCommission(ctx, models.Commission{
			HelperID:      recruiter.ID,
			ReferralID:    referral.ID,
			NetworkAmount: breakdown.Network,
			Period:        period,
			Status:        models.CommissionStatusPending,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveFor loads the config that applies to the referral's plan for one
// tier. A missing global config counts as disabled rather than an error so a
// half-configured network never pays accidental commissions.
func (s *CommissionService) resolveFor(ctx context.Context, plan *models.SubscriptionPlan, billingCycle string, tier models.CommissionTier) (commission.Resolved, error) {
	var override *models.PlanOverride
	if plan != nil {
		var err error
		override, err = s.ConfigRepo.GetPlanOverride(ctx, plan.ID, tier)
		if err != nil {
			return commission.Resolved{}, err
		}
	}

	global, err := s.ConfigRepo.GetGlobalConfig(ctx, tier)
	if err == sql.ErrNoRows {
		if override == nil {
			return commission.Resolved{Source: commission.SourceDisabled}, nil
		}
		global = models.CommissionConfig{}
	} else if err != nil {
		return commission.Resolved{}, err
	}
	return commission.Resolve(override, billingCycle, global), nil
}

// applyHelperRate substitutes the helper's personal percentage rate into the
// resolved config. Admin-set helper rates only affect percentage components;
// fixed components pay the configured amount regardless of who earned it.
func applyHelperRate(resolved commission.Resolved, rate float64) commission.Resolved {
	if resolved.Source == commission.SourceDisabled || rate <= 0 {
		return resolved
	}
	if resolved.Config.Onetime.Type == models.RateTypePercentage {
		resolved.Config.Onetime.Value = rate
	}
	if resolved.Config.Recurring.Type == models.RateTypePercentage {
		resolved.Config.Recurring.Value = rate
	}
	return resolved
}

func (s *CommissionService) ListByHelper(ctx context.Context, helperID int) ([]models.Commission, error) {
	return s.CommissionRepo.ListByHelper(ctx, helperID)
}

// MarkPaid pays out a batch of commissions. The whole batch succeeds or
// nothing changes; notification failures never unwind the payout.
func (s *CommissionService) MarkPaid(ctx context.Context, req models.PayoutRequest) error {
	if len(req.CommissionIDs) == 0 {
		return models.ErrCommissionNotFound
	}
	if req.PaymentRef == "" {
		return models.ErrEmptyPaymentReference
	}
	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	if err := s.CommissionRepo.MarkPaid(ctx, req.CommissionIDs, paidAt, req.PaymentRef); err != nil {
		return err
	}

	if s.Notifier == nil {
		return nil
	}
	for _, id := range req.CommissionIDs {
		c, err := s.CommissionRepo.GetCommissionByID(ctx, id)
		if err != nil {
			log.Printf("payout notify: load commission %d: %v", id, err)
			continue
		}
		s.Notifier.PayoutLanded(ctx, c.HelperID, c.DirectAmount+c.NetworkAmount, req.PaymentRef)
	}
	return nil
}

// UpdateGlobalConfig validates and saves a network-wide tier default. Warnings
// are returned to the caller; errors block the save.
func (s *CommissionService) UpdateGlobalConfig(ctx context.Context, cfg models.CommissionConfig) ([]commission.ConfigIssue, error) {
	issues := commission.ValidateConfig(cfg)
	for _, issue := range issues {
		if issue.Level == commission.LevelError {
			return issues, fmt.Errorf("commission config %s: %s", issue.Field, issue.Message)
		}
	}
	return issues, s.ConfigRepo.UpsertGlobalConfig(ctx, cfg)
}

// UpdatePlanOverride validates and saves a plan-scoped override: the enabled
// flag plus whatever cycle configs the request carries. A request without
// cycle configs only toggles the flag; warnings are then recomputed against
// the stored override so an enabled-but-zero override always surfaces.
func (s *CommissionService) UpdatePlanOverride(ctx context.Context, planID int, o models.PlanOverride) ([]commission.ConfigIssue, error) {
	if o.Monthly.Model != "" || o.Yearly.Model != "" {
		issues := commission.ValidateOverride(o)
		for _, issue := range issues {
			if issue.Level == commission.LevelError {
				return issues, fmt.Errorf("plan override %s: %s", issue.Field, issue.Message)
			}
		}
		return issues, s.ConfigRepo.UpsertPlanOverride(ctx, planID, o)
	}

	if err := s.ConfigRepo.SetOverrideEnabled(ctx, planID, o.Tier, o.Enabled); err != nil {
		return nil, err
	}
	stored, err := s.ConfigRepo.GetPlanOverride(ctx, planID, o.Tier)
	if err != nil || stored == nil {
		return nil, err
	}
	return commission.ValidateOverride(*stored), nil
}
