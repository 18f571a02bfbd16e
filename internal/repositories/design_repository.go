package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"dukanBack/internal/models"
)

type DesignRepository struct {
	DB *sql.DB
}

// AppendTurn records one prompt/response exchange. Every turn is persisted,
// published or not.
func (r *DesignRepository) AppendTurn(ctx context.Context, turn models.DesignTurn) (int, error) {
	var designJSON []byte
	if turn.Design != nil {
		var err error
		designJSON, err = json.Marshal(turn.Design)
		if err != nil {
			return 0, err
		}
	}
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO ai_designer_history (store_id, prompt, reply, design, published)
VALUES (?, ?, ?, ?, ?)`,
		turn.StoreID, turn.Prompt, turn.Reply, designJSON, turn.Published)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func scanTurn(scanner interface{ Scan(dest ...any) error }) (models.DesignTurn, error) {
	var turn models.DesignTurn
	var reply sql.NullString
	var designJSON []byte
	err := scanner.Scan(&turn.ID, &turn.StoreID, &turn.Prompt, &reply, &designJSON, &turn.Published, &turn.CreatedAt)
	if err != nil {
		return models.DesignTurn{}, err
	}
	if reply.Valid {
		turn.Reply = reply.String
	}
	if len(designJSON) > 0 {
		var design models.DesignResult
		if err := json.Unmarshal(designJSON, &design); err != nil {
			return models.DesignTurn{}, err
		}
		turn.Design = &design
	}
	return turn, nil
}

const turnColumns = `id, store_id, prompt, reply, design, published, created_at`

func (r *DesignRepository) GetTurn(ctx context.Context, id int) (models.DesignTurn, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+turnColumns+` FROM ai_designer_history WHERE id = ?`, id)
	turn, err := scanTurn(row)
	if err == sql.ErrNoRows {
		return models.DesignTurn{}, models.ErrDesignNotFound
	}
	return turn, err
}

func (r *DesignRepository) ListHistory(ctx context.Context, storeID, limit int) ([]models.DesignTurn, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+turnColumns+` FROM ai_designer_history WHERE store_id = ? ORDER BY created_at DESC LIMIT ?`, storeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []models.DesignTurn
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return turns, nil
}

// LatestDesign returns the most recent historical turn that carried a design,
// or nil when none exists.
func (r *DesignRepository) LatestDesign(ctx context.Context, storeID int) (*models.DesignResult, error) {
	row := r.DB.QueryRowContext(ctx, `
SELECT `+turnColumns+` FROM ai_designer_history
WHERE store_id = ? AND design IS NOT NULL
ORDER BY created_at DESC LIMIT 1`, storeID)
	turn, err := scanTurn(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return turn.Design, nil
}

// PublishedDesign returns the design of the turn flagged as published, or nil.
// At most one turn per store carries the flag.
func (r *DesignRepository) PublishedDesign(ctx context.Context, storeID int) (*models.DesignResult, error) {
	row := r.DB.QueryRowContext(ctx, `
SELECT `+turnColumns+` FROM ai_designer_history
WHERE store_id = ? AND published = 1
ORDER BY created_at DESC LIMIT 1`, storeID)
	turn, err := scanTurn(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return turn.Design, nil
}

// SetPublished flags one turn as the published design and clears the flag on
// every other turn of the store, inside a single transaction.
func (r *DesignRepository) SetPublished(ctx context.Context, storeID, turnID int) (err error) {
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

	if _, err = tx.ExecContext(ctx, `UPDATE ai_designer_history SET published = 0 WHERE store_id = ?`, storeID); err != nil {
		return err
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx, `UPDATE ai_designer_history SET published = 1 WHERE id = ? AND store_id = ?`, turnID, storeID)
	if err != nil {
		return err
	}
	affected, affErr := res.RowsAffected()
	if affErr != nil {
		err = affErr
		return err
	}
	if affected == 0 {
		err = models.ErrDesignNotFound
	}
	return err
}

// ClearPublished removes the published flag for a store (reset path).
func (r *DesignRepository) ClearPublished(ctx context.Context, storeID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE ai_designer_history SET published = 0 WHERE store_id = ?`, storeID)
	return err
}
