package repositories

import (
	"context"
	"database/sql"

	"dukanBack/internal/models"
)

type CommissionConfigRepository struct {
	DB *sql.DB
}

func scanConfig(scanner interface{ Scan(dest ...any) error }) (models.CommissionConfig, error) {
	var cfg models.CommissionConfig
	var tier, model, onetimeType, recurringType string
	var updated sql.NullTime
	err := scanner.Scan(&cfg.ID, &tier, &model, &onetimeType, &cfg.Onetime.Value, &recurringType, &cfg.Recurring.Value, &cfg.Duration, &cfg.CreatedAt, &updated)
	if err != nil {
		return models.CommissionConfig{}, err
	}
	cfg.Tier = models.CommissionTier(tier)
	cfg.Model = models.CommissionModel(model)
	cfg.Onetime.Type = models.RateType(onetimeType)
	cfg.Recurring.Type = models.RateType(recurringType)
	if updated.Valid {
		t := updated.Time
		cfg.UpdatedAt = &t
	}
	return cfg, nil
}

const configColumns = `id, tier, model, onetime_type, onetime_value, recurring_type, recurring_value, duration, created_at, updated_at`

// GetGlobalConfig returns the network-wide default config for a tier.
func (r *CommissionConfigRepository) GetGlobalConfig(ctx context.Context, tier models.CommissionTier) (models.CommissionConfig, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+configColumns+` FROM commission_configs WHERE tier = ? AND plan_id IS NULL`, string(tier))
	return scanConfig(row)
}

// GetPlanOverride returns the plan-scoped override for a tier, or nil when
// the plan has none. A returned override with Enabled=false is meaningful:
// the plan deliberately pays no commission.
func (r *CommissionConfigRepository) GetPlanOverride(ctx context.Context, planID int, tier models.CommissionTier) (*models.PlanOverride, error) {
	var o models.PlanOverride
	var enabled bool
	err := r.DB.QueryRowContext(ctx, `SELECT id, plan_id, enabled FROM plan_commission_overrides WHERE plan_id = ? AND tier = ?`, planID, string(tier)).
		Scan(&o.ID, &o.PlanID, &enabled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Tier = tier
	o.Enabled = enabled
	if !enabled {
		return &o, nil
	}

	for _, cycle := range []string{"monthly", "yearly"} {
		row := r.DB.QueryRowContext(ctx, `SELECT `+configColumns+` FROM commission_configs WHERE plan_id = ? AND tier = ? AND billing_cycle = ?`, planID, string(tier), cycle)
		cfg, scanErr := scanConfig(row)
		if scanErr == sql.ErrNoRows {
			continue
		}
		if scanErr != nil {
			return nil, scanErr
		}
		if cycle == "monthly" {
			o.Monthly = cfg
		} else {
			o.Yearly = cfg
		}
	}
	return &o, nil
}

func (r *CommissionConfigRepository) UpsertGlobalConfig(ctx context.Context, cfg models.CommissionConfig) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var id int64
	switch scanErr := tx.QueryRowContext(ctx, `SELECT id FROM commission_configs WHERE tier = ? AND plan_id IS NULL FOR UPDATE`, string(cfg.Tier)).Scan(&id); scanErr {
	case nil:
		_, err = tx.ExecContext(ctx, `
UPDATE commission_configs
SET model = ?, onetime_type = ?, onetime_value = ?, recurring_type = ?, recurring_value = ?, duration = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`,
			string(cfg.Model), string(cfg.Onetime.Type), cfg.Onetime.Value, string(cfg.Recurring.Type), cfg.Recurring.Value, cfg.Duration, id)
	case sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, `
INSERT INTO commission_configs (tier, model, onetime_type, onetime_value, recurring_type, recurring_value, duration)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(cfg.Tier), string(cfg.Model), string(cfg.Onetime.Type), cfg.Onetime.Value, string(cfg.Recurring.Type), cfg.Recurring.Value, cfg.Duration)
	default:
		err = scanErr
	}
	return err
}

// UpsertPlanOverride writes the override flag and the carried cycle configs
// for one plan and tier in a single transaction. Cycle configs with an empty
// model are left untouched so a monthly-only edit cannot wipe the yearly one.
func (r *CommissionConfigRepository) UpsertPlanOverride(ctx context.Context, planID int, o models.PlanOverride) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx, `UPDATE plan_commission_overrides SET enabled = ? WHERE plan_id = ? AND tier = ?`, o.Enabled, planID, string(o.Tier))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err = tx.ExecContext(ctx, `INSERT INTO plan_commission_overrides (plan_id, tier, enabled) VALUES (?, ?, ?)`, planID, string(o.Tier), o.Enabled); err != nil {
			return err
		}
	}

	for cycle, cfg := range map[string]models.CommissionConfig{"monthly": o.Monthly, "yearly": o.Yearly} {
		if cfg.Model == "" {
			continue
		}
		var id int64
		switch scanErr := tx.QueryRowContext(ctx, `SELECT id FROM commission_configs WHERE plan_id = ? AND tier = ? AND billing_cycle = ? FOR UPDATE`, planID, string(o.Tier), cycle).Scan(&id); scanErr {
		case nil:
			_, err = tx.ExecContext(ctx, `
UPDATE commission_configs
SET model = ?, onetime_type = ?, onetime_value = ?, recurring_type = ?, recurring_value = ?, duration = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`,
				string(cfg.Model), string(cfg.Onetime.Type), cfg.Onetime.Value, string(cfg.Recurring.Type), cfg.Recurring.Value, cfg.Duration, id)
		case sql.ErrNoRows:
			_, err = tx.ExecContext(ctx, `
INSERT INTO commission_configs (plan_id, tier, billing_cycle, model, onetime_type, onetime_value, recurring_type, recurring_value, duration)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				planID, string(o.Tier), cycle, string(cfg.Model), string(cfg.Onetime.Type), cfg.Onetime.Value, string(cfg.Recurring.Type), cfg.Recurring.Value, cfg.Duration)
		default:
			err = scanErr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *CommissionConfigRepository) SetOverrideEnabled(ctx context.Context, planID int, tier models.CommissionTier, enabled bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE plan_commission_overrides SET enabled = ? WHERE plan_id = ? AND tier = ?`, enabled, planID, string(tier))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		_, err = r.DB.ExecContext(ctx, `INSERT INTO plan_commission_overrides (plan_id, tier, enabled) VALUES (?, ?, ?)`, planID, string(tier), enabled)
	}
	return err
}
