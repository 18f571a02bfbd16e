package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"dukanBack/internal/models"
)

type HelperRepository struct {
	DB *sql.DB
}

func scanHelper(scanner interface{ Scan(dest ...any) error }) (models.Helper, error) {
	var h models.Helper
	var status string
	var recruiter sql.NullInt64
	var updated sql.NullTime
	err := scanner.Scan(&h.ID, &h.Name, &h.Email, &h.Phone, &h.ReferralCode, &status, &h.DirectRate, &h.NetworkRate, &recruiter, &h.CreatedAt, &updated)
	if err != nil {
		return models.Helper{}, err
	}
	h.Status = models.HelperStatus(status)
	if recruiter.Valid {
		id := int(recruiter.Int64)
		h.RecruiterID = &id
	}
	if updated.Valid {
		t := updated.Time
		h.UpdatedAt = &t
	}
	return h, nil
}

const helperColumns = `id, name, email, phone, referral_code, status, direct_rate, network_rate, recruiter_id, created_at, updated_at`

func (r *HelperRepository) CreateHelper(ctx context.Context, h models.Helper) (models.Helper, error) {
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO helpers (name, email, phone, referral_code, status, direct_rate, network_rate, recruiter_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.Name, h.Email, h.Phone, h.ReferralCode, string(h.Status), h.DirectRate, h.NetworkRate, h.RecruiterID)
	if err != nil {
		return models.Helper{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Helper{}, err
	}
	return r.GetHelperByID(ctx, int(id))
}

func (r *HelperRepository) GetHelperByID(ctx context.Context, id int) (models.Helper, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+helperColumns+` FROM helpers WHERE id = ?`, id)
	h, err := scanHelper(row)
	if err == sql.ErrNoRows {
		return models.Helper{}, models.ErrHelperNotFound
	}
	return h, err
}

func (r *HelperRepository) GetHelperByReferralCode(ctx context.Context, code string) (models.Helper, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+helperColumns+` FROM helpers WHERE referral_code = ?`, code)
	h, err := scanHelper(row)
	if err == sql.ErrNoRows {
		return models.Helper{}, models.ErrHelperNotFound
	}
	return h, err
}

func (r *HelperRepository) ListHelpers(ctx context.Context) ([]models.Helper, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+helperColumns+` FROM helpers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var helpers []models.Helper
	for rows.Next() {
		h, err := scanHelper(rows)
		if err != nil {
			return nil, err
		}
		helpers = append(helpers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return helpers, nil
}

func (r *HelperRepository) UpdateStatus(ctx context.Context, id int, status models.HelperStatus) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE helpers SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrHelperNotFound
	}
	return nil
}

func (r *HelperRepository) UpdateRates(ctx context.Context, id int, directRate, networkRate float64) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE helpers SET direct_rate = ?, network_rate = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, directRate, networkRate, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrHelperNotFound
	}
	return nil
}

// SetRecruiter walks the recruiter chain before writing so a helper can never
// become its own recruiter, directly or transitively.
func (r *HelperRepository) SetRecruiter(ctx context.Context, helperID, recruiterID int) error {
	if helperID == recruiterID {
		return models.ErrRecruiterCycle
	}
	current := recruiterID
	for current != 0 {
		var next sql.NullInt64
		err := r.DB.QueryRowContext(ctx, `SELECT recruiter_id FROM helpers WHERE id = ?`, current).Scan(&next)
		if err == sql.ErrNoRows {
			return models.ErrHelperNotFound
		}
		if err != nil {
			return err
		}
		if !next.Valid {
			break
		}
		if int(next.Int64) == helperID {
			return models.ErrRecruiterCycle
		}
		current = int(next.Int64)
	}
	_, err := r.DB.ExecContext(ctx, `UPDATE helpers SET recruiter_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, recruiterID, helperID)
	return err
}

func (r *HelperRepository) CountRecruits(ctx context.Context, helperID int) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM helpers WHERE recruiter_id = ?`, helperID).Scan(&count)
	return count, err
}

func (r *HelperRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM helpers WHERE referral_code = ?)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check referral code: %w", err)
	}
	return exists, nil
}
