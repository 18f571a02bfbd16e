package repositories

import (
	"context"
	"database/sql"
	"time"

	"dukanBack/internal/models"
)

type ReferralRepository struct {
	DB *sql.DB
}

const referralColumns = `id, helper_id, store_id, owner_name, owner_email, owner_phone, signed_up_at, trial_status, trial_ends_at, subscription_purchased, plan_name, plan_amount, billing_cycle, purchased_at`

func scanReferral(scanner interface{ Scan(dest ...any) error }) (models.StoreReferral, error) {
	var ref models.StoreReferral
	var trialStatus string
	var planName, billingCycle sql.NullString
	var planAmount sql.NullFloat64
	var purchasedAt sql.NullTime
	err := scanner.Scan(&ref.ID, &ref.HelperID, &ref.StoreID, &ref.OwnerName, &ref.OwnerEmail, &ref.OwnerPhone,
		&ref.SignedUpAt, &trialStatus, &ref.TrialEndsAt, &ref.SubscriptionPurchased, &planName, &planAmount, &billingCycle, &purchasedAt)
	if err != nil {
		return models.StoreReferral{}, err
	}
	ref.TrialStatus = models.TrialStatus(trialStatus)
	if planName.Valid {
		ref.PlanName = planName.String
	}
	if planAmount.Valid {
		ref.PlanAmount = planAmount.Float64
	}
	if billingCycle.Valid {
		ref.BillingCycle = billingCycle.String
	}
	if purchasedAt.Valid {
		t := purchasedAt.Time
		ref.PurchasedAt = &t
	}
	return ref, nil
}

func (r *ReferralRepository) CreateReferral(ctx context.Context, ref models.StoreReferral) (models.StoreReferral, error) {
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO store_referrals (helper_id, store_id, owner_name, owner_email, owner_phone, signed_up_at, trial_status, trial_ends_at, subscription_purchased)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		ref.HelperID, ref.StoreID, ref.OwnerName, ref.OwnerEmail, ref.OwnerPhone, ref.SignedUpAt, string(ref.TrialStatus), ref.TrialEndsAt)
	if err != nil {
		return models.StoreReferral{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.StoreReferral{}, err
	}
	return r.GetReferralByID(ctx, int(id))
}

func (r *ReferralRepository) GetReferralByID(ctx context.Context, id int) (models.StoreReferral, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+referralColumns+` FROM store_referrals WHERE id = ?`, id)
	ref, err := scanReferral(row)
	if err == sql.ErrNoRows {
		return models.StoreReferral{}, models.ErrReferralNotFound
	}
	return ref, err
}

func (r *ReferralRepository) GetReferralByStoreID(ctx context.Context, storeID int) (models.StoreReferral, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+referralColumns+` FROM store_referrals WHERE store_id = ?`, storeID)
	ref, err := scanReferral(row)
	if err == sql.ErrNoRows {
		return models.StoreReferral{}, models.ErrReferralNotFound
	}
	return ref, err
}

func (r *ReferralRepository) ListReferralsByHelper(ctx context.Context, helperID int) ([]models.StoreReferral, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+referralColumns+` FROM store_referrals WHERE helper_id = ? ORDER BY signed_up_at DESC`, helperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.StoreReferral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

// MarkPurchased records the subscription conversion on the referral row. The
// owner snapshot stays untouched.
func (r *ReferralRepository) MarkPurchased(ctx context.Context, id int, planName string, amount float64, billingCycle string, purchasedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE store_referrals
SET subscription_purchased = 1, plan_name = ?, plan_amount = ?, billing_cycle = ?, purchased_at = ?
WHERE id = ?`,
		planName, amount, billingCycle, purchasedAt, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrReferralNotFound
	}
	return nil
}

// ExpireTrials marks trials past their end date as expired and returns the
// number of rows touched.
func (r *ReferralRepository) ExpireTrials(ctx context.Context, now time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, `
UPDATE store_referrals
SET trial_status = 'expired'
WHERE trial_status = 'active' AND trial_ends_at <= ? AND subscription_purchased = 0`, now)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *ReferralRepository) CountByHelper(ctx context.Context, helperID int) (total int, converted int, err error) {
	err = r.DB.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(subscription_purchased), 0)
FROM store_referrals WHERE helper_id = ?`, helperID).Scan(&total, &converted)
	return total, converted, err
}
