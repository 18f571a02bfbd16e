package repositories

import (
	"context"
	"database/sql"
	"time"

	"dukanBack/internal/models"
)

type TokenRepository struct {
	DB *sql.DB
}

func (r *TokenRepository) GetBalance(ctx context.Context, storeID int) (models.TokenBalance, error) {
	var b models.TokenBalance
	var expires, updated sql.NullTime
	err := r.DB.QueryRowContext(ctx, `SELECT store_id, remaining, expires_at, updated_at FROM design_tokens WHERE store_id = ?`, storeID).
		Scan(&b.StoreID, &b.Remaining, &expires, &updated)
	if err == sql.ErrNoRows {
		return models.TokenBalance{StoreID: storeID}, nil
	}
	if err != nil {
		return models.TokenBalance{}, err
	}
	if expires.Valid {
		t := expires.Time
		b.ExpiresAt = &t
	}
	if updated.Valid {
		t := updated.Time
		b.UpdatedAt = &t
	}
	return b, nil
}

// ConsumeToken decrements the balance by one, atomically checked against
// zero and expiry in the same statement. Zero rows touched means the grant
// is refused.
func (r *TokenRepository) ConsumeToken(ctx context.Context, storeID int) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE design_tokens
SET remaining = remaining - 1, updated_at = CURRENT_TIMESTAMP
WHERE store_id = ? AND remaining > 0 AND (expires_at IS NULL OR expires_at > ?)`, storeID, time.Now())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNoTokensRemaining
	}
	return nil
}

// RestoreToken compensates a consumed token after a failed generation.
func (r *TokenRepository) RestoreToken(ctx context.Context, storeID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE design_tokens SET remaining = remaining + 1, updated_at = CURRENT_TIMESTAMP WHERE store_id = ?`, storeID)
	return err
}

func (r *TokenRepository) AddTokens(ctx context.Context, storeID, amount int, expiresAt *time.Time) (err error) {
	if amount <= 0 {
		return nil
	}

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
	switch scanErr := tx.QueryRowContext(ctx, `SELECT store_id FROM design_tokens WHERE store_id = ? FOR UPDATE`, storeID).Scan(&id); scanErr {
	case nil:
		_, err = tx.ExecContext(ctx, `UPDATE design_tokens SET remaining = remaining + ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP WHERE store_id = ?`, amount, expiresAt, storeID)
	case sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, `INSERT INTO design_tokens (store_id, remaining, expires_at) VALUES (?, ?, ?)`, storeID, amount, expiresAt)
	default:
		err = scanErr
	}
	return err
}
