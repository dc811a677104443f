package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"

	"github.com/google/uuid"
)

// transactionProjection reads a transaction with its account and category
// resolved in a single statement. A soft-deleted category is projected as
// NULL; the account is always present because the reference is mandatory.
const transactionProjection = `SELECT
	t.id, t.account_id, t.category_id, t.type, t.amount, t.description, t.date,
	t.is_reconciled, t.sort_order, t.created_at, t.updated_at,
	a.id, a.name, a.type, a.balance, a.currency, a.description, a.sort_order,
	a.created_at, a.updated_at, a.deleted_at,
	c.id, c.name, c.type, c.color, c.icon, c.sort_order, c.created_at, c.updated_at
FROM transactions t
JOIN accounts a ON a.id = t.account_id
LEFT JOIN categories c ON c.id = t.category_id AND c.deleted_at IS NULL
WHERE t.deleted_at IS NULL`

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		a          core.Account
		categoryID uuid.NullUUID
		txDesc     sql.NullString
		accDesc    sql.NullString
		accDeleted sql.NullTime

		catID                 uuid.NullUUID
		catName, catType      sql.NullString
		catColor, catIcon     sql.NullString
		catSort               sql.NullFloat64
		catCreated, catUpdate sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.AccountID, &categoryID, &t.Type, &t.Amount, &txDesc, &t.Date,
		&t.IsReconciled, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
		&a.ID, &a.Name, &a.Type, &a.Balance, &a.Currency, &accDesc, &a.SortOrder,
		&a.CreatedAt, &a.UpdatedAt, &accDeleted,
		&catID, &catName, &catType, &catColor, &catIcon, &catSort, &catCreated, &catUpdate,
	)
	if err != nil {
		return core.Transaction{}, err
	}

	if categoryID.Valid {
		id := categoryID.UUID
		t.CategoryID = &id
	}
	t.Description = nullString(txDesc)
	t.Date = t.Date.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()

	a.Description = nullString(accDesc)
	a.DeletedAt = nullTime(accDeleted)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	t.Account = &a

	if catID.Valid {
		t.Category = &core.Category{
			Base: core.Base{
				ID:        catID.UUID,
				CreatedAt: catCreated.Time.UTC(),
				UpdatedAt: catUpdate.Time.UTC(),
			},
			Name:      catName.String,
			Type:      core.TransactionType(catType.String),
			Color:     nullString(catColor),
			Icon:      nullString(catIcon),
			SortOrder: catSort.Float64,
		}
	}
	return t, nil
}

// ListTransactions returns live transactions by ascending sort position,
// newest date first among equal positions.
func (q *Queries) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := q.query(ctx, transactionProjection+`
		ORDER BY t.sort_order ASC, t.date DESC, t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// GetTransaction returns the projected transaction or core.ErrNotFound.
func (q *Queries) GetTransaction(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	t, err := scanTransaction(q.queryRow(ctx, transactionProjection+` AND t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.NotFound("transaction")
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// InsertTransaction stores the bare row; callers re-read the projection.
func (q *Queries) InsertTransaction(ctx context.Context, t core.Transaction) error {
	_, err := q.exec(ctx, `INSERT INTO transactions
		(id, account_id, category_id, type, amount, description, date, is_reconciled, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.CategoryID, string(t.Type), t.Amount, t.Description, t.Date,
		t.IsReconciled, t.SortOrder, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.NewValidationError("account_id", "references a missing account or category")
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (q *Queries) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	err := q.execOne(ctx, "transaction", `UPDATE transactions SET
		account_id = ?, category_id = ?, type = ?, amount = ?, description = ?, date = ?,
		is_reconciled = ?, sort_order = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		t.AccountID, t.CategoryID, string(t.Type), t.Amount, t.Description, t.Date,
		t.IsReconciled, t.SortOrder, t.UpdatedAt, t.ID)
	switch {
	case err == nil, errors.Is(err, core.ErrNotFound):
		return err
	case isForeignKeyViolation(err):
		return core.NewValidationError("account_id", "references a missing account or category")
	default:
		return fmt.Errorf("update transaction: %w", err)
	}
}

func (q *Queries) SoftDeleteTransaction(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := q.execOne(ctx, "transaction", `UPDATE transactions SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, at.UTC(), at.UTC(), id)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	return err
}
