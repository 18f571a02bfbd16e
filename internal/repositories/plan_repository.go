package repositories

import (
	"context"
	"database/sql"

	"dukanBack/internal/models"
)

type PlanRepository struct {
	DB *sql.DB
}

const planColumns = `id, name, monthly_price, yearly_price, product_limit, order_limit, has_analytics, has_ai_designer, trial_days, is_popular, badge, created_at, updated_at`

func scanPlan(scanner interface{ Scan(dest ...any) error }) (models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	var badge sql.NullString
	var updated sql.NullTime
	err := scanner.Scan(&p.ID, &p.Name, &p.MonthlyPrice, &p.YearlyPrice, &p.ProductLimit, &p.OrderLimit, &p.HasAnalytics, &p.HasAIDesigner, &p.TrialDays, &p.IsPopular, &badge, &p.CreatedAt, &updated)
	if err != nil {
		return models.SubscriptionPlan{}, err
	}
	p.Badge = badge.String
	if updated.Valid {
		t := updated.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

func (r *PlanRepository) CreatePlan(ctx context.Context, p models.SubscriptionPlan) (models.SubscriptionPlan, error) {
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO subscription_plans (name, monthly_price, yearly_price, product_limit, order_limit, has_analytics, has_ai_designer, trial_days, is_popular, badge)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.MonthlyPrice, p.YearlyPrice, p.ProductLimit, p.OrderLimit, p.HasAnalytics, p.HasAIDesigner, p.TrialDays, p.IsPopular, p.Badge)
	if err != nil {
		return models.SubscriptionPlan{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.SubscriptionPlan{}, err
	}
	return r.GetPlanByID(ctx, int(id))
}

func (r *PlanRepository) GetPlanByID(ctx context.Context, id int) (models.SubscriptionPlan, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return models.SubscriptionPlan{}, models.ErrPlanNotFound
	}
	return p, err
}

func (r *PlanRepository) GetPlanByName(ctx context.Context, name string) (models.SubscriptionPlan, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE name = ?`, name)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return models.SubscriptionPlan{}, models.ErrPlanNotFound
	}
	return p, err
}

func (r *PlanRepository) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+planColumns+` FROM subscription_plans ORDER BY monthly_price ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) UpdatePlan(ctx context.Context, p models.SubscriptionPlan) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE subscription_plans
SET name = ?, monthly_price = ?, yearly_price = ?, product_limit = ?, order_limit = ?, has_analytics = ?, has_ai_designer = ?, trial_days = ?, is_popular = ?, badge = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`,
		p.Name, p.MonthlyPrice, p.YearlyPrice, p.ProductLimit, p.OrderLimit, p.HasAnalytics, p.HasAIDesigner, p.TrialDays, p.IsPopular, p.Badge, p.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrPlanNotFound
	}
	return nil
}
