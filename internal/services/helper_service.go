package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
)

type HelperService struct {
	HelperRepo     *repositories.HelperRepository
	ReferralRepo   *repositories.ReferralRepository
	CommissionRepo *repositories.CommissionRepository
}

// Default rates applied to a freshly approved helper; admins adjust per
// helper afterwards.
const (
	defaultDirectRate  = 10.0
	defaultNetworkRate = 5.0
)

// ApproveApplication turns an application into an active helper with a fresh
// referral code. The recruiter reference, when present, is validated against
// the acyclicity invariant after the row exists.
func (s *HelperService) ApproveApplication(ctx context.Context, app models.HelperApplication) (models.Helper, error) {
	code, err := s.generateReferralCode(ctx)
	if err != nil {
		return models.Helper{}, err
	}

	helper, err := s.HelperRepo.CreateHelper(ctx, models.Helper{
		Name:         app.Name,
		Email:        app.Email,
		Phone:        app.Phone,
		ReferralCode: code,
		Status:       models.HelperStatusActive,
		DirectRate:   defaultDirectRate,
		NetworkRate:  defaultNetworkRate,
	})
	if err != nil {
		return models.Helper{}, err
	}

	if app.RecruiterID != nil {
		if err := s.HelperRepo.SetRecruiter(ctx, helper.ID, *app.RecruiterID); err != nil {
			return models.Helper{}, err
		}
		helper.RecruiterID = app.RecruiterID
	}
	return helper, nil
}

func (s *HelperService) generateReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		exists, err := s.HelperRepo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", models.ErrDuplicateReferralCode
}

func (s *HelperService) GetHelper(ctx context.Context, id int) (models.Helper, error) {
	return s.HelperRepo.GetHelperByID(ctx, id)
}

func (s *HelperService) ListHelpers(ctx context.Context) ([]models.Helper, error) {
	return s.HelperRepo.ListHelpers(ctx)
}

func (s *HelperService) SuspendHelper(ctx context.Context, id int) error {
	return s.HelperRepo.UpdateStatus(ctx, id, models.HelperStatusSuspended)
}

func (s *HelperService) ActivateHelper(ctx context.Context, id int) error {
	return s.HelperRepo.UpdateStatus(ctx, id, models.HelperStatusActive)
}

func (s *HelperService) UpdateRates(ctx context.Context, id int, directRate, networkRate float64) error {
	if directRate < 0 || directRate > 100 || networkRate < 0 || networkRate > 100 {
		return fmt.Errorf("rates must be within [0,100]: direct %.2f, network %.2f", directRate, networkRate)
	}
	return s.HelperRepo.UpdateRates(ctx, id, directRate, networkRate)
}

func (s *HelperService) AssignRecruiter(ctx context.Context, helperID, recruiterID int) error {
	return s.HelperRepo.SetRecruiter(ctx, helperID, recruiterID)
}

// SummarizeHelper recomputes the helper dashboard from commission and
// referral rows on every call. Conversion rate is converted referrals over
// total referrals, rounded to the nearest integer percent.
func (s *HelperService) SummarizeHelper(ctx context.Context, helperID int) (models.HelperStats, error) {
	if _, err := s.HelperRepo.GetHelperByID(ctx, helperID); err != nil {
		return models.HelperStats{}, err
	}

	earned, paid, pending, err := s.CommissionRepo.SummarizeHelper(ctx, helperID)
	if err != nil {
		return models.HelperStats{}, err
	}
	total, converted, err := s.ReferralRepo.CountByHelper(ctx, helperID)
	if err != nil {
		return models.HelperStats{}, err
	}
	recruited, err := s.HelperRepo.CountRecruits(ctx, helperID)
	if err != nil {
		return models.HelperStats{}, err
	}

	stats := models.HelperStats{
		HelperID:       helperID,
		TotalEarned:    earned,
		TotalPaid:      paid,
		TotalPending:   pending,
		ReferralCount:  total,
		RecruitedCount: recruited,
	}
	if total > 0 {
		stats.ConversionRatePct = int(math.Round(float64(converted) / float64(total) * 100))
	}
	return stats, nil
}
