package repositories

import (
	"context"
	"database/sql"

	"dukanBack/internal/models"
)

type TransactionRepository struct {
	DB *sql.DB
}

const transactionColumns = `id, store_id, kind, amount, currency, plan_id, billing_cycle, token_count, order_id, payment_id, status, created_at, updated_at`

func scanTransaction(scanner interface{ Scan(dest ...any) error }) (models.Transaction, error) {
	var t models.Transaction
	var kind, status string
	var planID sql.NullInt64
	var billingCycle, orderID, paymentID sql.NullString
	var tokenCount sql.NullInt64
	var updated sql.NullTime
	err := scanner.Scan(&t.ID, &t.StoreID, &kind, &t.Amount, &t.Currency, &planID, &billingCycle, &tokenCount, &orderID, &paymentID, &status, &t.CreatedAt, &updated)
	if err != nil {
		return models.Transaction{}, err
	}
	t.Kind = models.TransactionKind(kind)
	t.Status = models.TransactionStatus(status)
	if planID.Valid {
		id := int(planID.Int64)
		t.PlanID = &id
	}
	t.BillingCycle = billingCycle.String
	t.TokenCount = int(tokenCount.Int64)
	t.OrderID = orderID.String
	t.PaymentID = paymentID.String
	if updated.Valid {
		u := updated.Time
		t.UpdatedAt = &u
	}
	return t, nil
}

func (r *TransactionRepository) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	res, err := r.DB.ExecContext(ctx, `
INSERT INTO transactions (store_id, kind, amount, currency, plan_id, billing_cycle, token_count, order_id, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.StoreID, string(t.Kind), t.Amount, t.Currency, t.PlanID, t.BillingCycle, t.TokenCount, t.OrderID, string(t.Status))
	if err != nil {
		return models.Transaction{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Transaction{}, err
	}
	return r.GetTransactionByID(ctx, int(id))
}

func (r *TransactionRepository) GetTransactionByID(ctx context.Context, id int) (models.Transaction, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return models.Transaction{}, models.ErrTransactionNotFound
	}
	return t, err
}

func (r *TransactionRepository) GetTransactionByOrderID(ctx context.Context, orderID string) (models.Transaction, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE order_id = ?`, orderID)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return models.Transaction{}, models.ErrTransactionNotFound
	}
	return t, err
}

// MarkPaid stamps the gateway payment id and flips the status. Only a
// transaction still in created state can move to paid.
func (r *TransactionRepository) MarkPaid(ctx context.Context, id int, paymentID string) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE transactions SET status = 'paid', payment_id = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND status = 'created'`, paymentID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) MarkFailed(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE transactions SET status = 'failed', updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

func (r *TransactionRepository) ListByStore(ctx context.Context, storeID int) ([]models.Transaction, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE store_id = ? ORDER BY created_at DESC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}
