package services

import (
	"context"
	"fmt"
	"strings"

	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
)

type PlanService struct {
	PlanRepo *repositories.PlanRepository
}

func validatePlan(p models.SubscriptionPlan) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("plan name is required")
	}
	if p.MonthlyPrice < 0 || p.YearlyPrice < 0 {
		return fmt.Errorf("plan prices must not be negative")
	}
	if p.TrialDays < 0 {
		return fmt.Errorf("trial days must not be negative")
	}
	return nil
}

func (s *PlanService) CreatePlan(ctx context.Context, p models.SubscriptionPlan) (models.SubscriptionPlan, error) {
	if err := validatePlan(p); err != nil {
		return models.SubscriptionPlan{}, err
	}
	return s.PlanRepo.CreatePlan(ctx, p)
}

func (s *PlanService) UpdatePlan(ctx context.Context, p models.SubscriptionPlan) error {
	if err := validatePlan(p); err != nil {
		return err
	}
	return s.PlanRepo.UpdatePlan(ctx, p)
}

func (s *PlanService) GetPlan(ctx context.Context, id int) (models.SubscriptionPlan, error) {
	return s.PlanRepo.GetPlanByID(ctx, id)
}

func (s *PlanService) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	return s.PlanRepo.ListPlans(ctx)
}
