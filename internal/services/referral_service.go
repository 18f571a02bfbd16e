package services

import (
	"context"
	"time"

	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
)

type ReferralService struct {
	HelperRepo   *repositories.HelperRepository
	ReferralRepo *repositories.ReferralRepository
	PlanRepo     *repositories.PlanRepository
}

// Trial length when the signed-up store has no plan selected yet.
const defaultTrialDays = 14

// AttributeSignup records that a store signup came through a helper's
// referral code. Only active helpers earn attributions; the owner contact
// fields are snapshotted on the referral row and never rewritten.
func (s *ReferralService) AttributeSignup(ctx context.Context, referralCode string, store models.Store, owner models.User, now time.Time) (models.StoreReferral, error) {
	helper, err := s.HelperRepo.GetHelperByReferralCode(ctx, referralCode)
	if err != nil {
		return models.StoreReferral{}, err
	}
	if helper.Status != models.HelperStatusActive {
		return models.StoreReferral{}, models.ErrHelperSuspended
	}

	trialDays := defaultTrialDays
	if store.PlanID != nil {
		plan, err := s.PlanRepo.GetPlanByID(ctx, *store.PlanID)
		if err != nil {
			return models.StoreReferral{}, err
		}
		if plan.TrialDays > 0 {
			trialDays = plan.TrialDays
		}
	}

	return s.ReferralRepo.CreateReferral(ctx, models.StoreReferral{
		HelperID:    helper.ID,
		StoreID:     store.ID,
		OwnerName:   owner.Name,
		OwnerEmail:  owner.Email,
		OwnerPhone:  owner.Phone,
		SignedUpAt:  now,
		TrialStatus: models.TrialStatusActive,
		TrialEndsAt: now.AddDate(0, 0, trialDays),
	})
}

func (s *ReferralService) GetReferral(ctx context.Context, id int) (models.StoreReferral, error) {
	return s.ReferralRepo.GetReferralByID(ctx, id)
}

func (s *ReferralService) ListByHelper(ctx context.Context, helperID int) ([]models.StoreReferral, error) {
	return s.ReferralRepo.ListReferralsByHelper(ctx, helperID)
}

// ExpireTrials is called by the background sweep; it returns how many trials
// it flipped to expired.
func (s *ReferralService) ExpireTrials(ctx context.Context, now time.Time) (int, error) {
	return s.ReferralRepo.ExpireTrials(ctx, now)
}
