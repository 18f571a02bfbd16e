package repositories

import (
	"context"
	"database/sql"
	"time"

	"dukanBack/internal/models"
)

type CommissionRepository struct {
	DB *sql.DB
}

const commissionColumns = `id, helper_id, referral_id, direct_amount, network_amount, period, status, created_at, paid_at, payment_ref`

func scanCommission(scanner interface{ Scan(dest ...any) error }) (models.Commission, error) {
	var c models.Commission
	var status string
	var paidAt sql.NullTime
	var paymentRef sql.NullString
	err := scanner.Scan(&c.ID, &c.HelperID, &c.ReferralID, &c.DirectAmount, &c.NetworkAmount, &c.Period, &status, &c.CreatedAt, &paidAt, &paymentRef)
	if err != nil {
		return models.Commission{}, err
	}
	c.Status = models.CommissionStatus(status)
	if paidAt.Valid {
		t := paidAt.Time
		c.PaidAt = &t
	}
	if paymentRef.Valid {
		ref := paymentRef.String
		c.PaymentRef = &ref
	}
	return c, nil
}

func (r *CommissionRepository) CreateCommission(ctx context.Context, c models.Commission) (models.Commission, error) {
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO network_commissions (helper_id, referral_id, direct_amount, network_amount, period, status)
VALUES (?, ?, ?, ?, ?, ?)`,
		c.HelperID, c.ReferralID, c.DirectAmount, c.NetworkAmount, c.Period, string(c.Status))
	if err != nil {
		return models.Commission{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Commission{}, err
	}
	return r.GetCommissionByID(ctx, int(id))
}

func (r *CommissionRepository) GetCommissionByID(ctx context.Context, id int) (models.Commission, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+commissionColumns+` FROM network_commissions WHERE id = ?`, id)
	c, err := scanCommission(row)
	if err == sql.ErrNoRows {
		return models.Commission{}, models.ErrCommissionNotFound
	}
	return c, err
}

func (r *CommissionRepository) ListByHelper(ctx context.Context, helperID int) ([]models.Commission, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+commissionColumns+` FROM network_commissions WHERE helper_id = ? ORDER BY created_at DESC`, helperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commissions []models.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, err
		}
		commissions = append(commissions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return commissions, nil
}

// MarkPaid transitions every referenced commission to paid inside one
// transaction. If any id is missing or already paid the whole batch rolls
// back and no row is modified.
func (r *CommissionRepository) MarkPaid(ctx context.Context, ids []int, paidAt time.Time, paymentRef string) (err error) {
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

	for _, id := range ids {
		var status string
		scanErr := tx.QueryRowContext(ctx, `SELECT status FROM network_commissions WHERE id = ? FOR UPDATE`, id).Scan(&status)
		if scanErr == sql.ErrNoRows {
			err = models.ErrCommissionNotFound
			return err
		}
		if scanErr != nil {
			err = scanErr
			return err
		}
		if models.CommissionStatus(status) == models.CommissionStatusPaid {
			err = models.ErrCommissionAlreadyPaid
			return err
		}
	}

	for _, id := range ids {
		_, err = tx.ExecContext(ctx, `
UPDATE network_commissions
SET status = ?, paid_at = ?, payment_ref = ?
WHERE id = ?`, string(models.CommissionStatusPaid), paidAt, paymentRef, id)
		if err != nil {
			return err
		}
	}
	return nil
}

// SummarizeHelper aggregates commission totals in SQL; the caller combines
// them with referral counts. Idempotent, recomputed on every view.
func (r *CommissionRepository) SummarizeHelper(ctx context.Context, helperID int) (earned, paid, pending float64, err error) {
	err = r.DB.QueryRowContext(ctx, `
SELECT
    COALESCE(SUM(direct_amount + network_amount), 0),
    COALESCE(SUM(CASE WHEN status = 'paid' THEN direct_amount + network_amount ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN status = 'earned_pending' THEN direct_amount + network_amount ELSE 0 END), 0)
FROM network_commissions WHERE helper_id = ?`, helperID).Scan(&earned, &paid, &pending)
	return earned, paid, pending, err
}

// LatestPeriod returns the highest period already billed for a referral and
// helper pair, so renewal processing never double-creates a period row.
func (r *CommissionRepository) LatestPeriod(ctx context.Context, referralID, helperID int) (int, error) {
	var period sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `SELECT MAX(period) FROM network_commissions WHERE referral_id = ? AND helper_id = ?`, referralID, helperID).Scan(&period)
	if err != nil {
		return 0, err
	}
	if !period.Valid {
		return 0, nil
	}
	return int(period.Int64), nil
}
