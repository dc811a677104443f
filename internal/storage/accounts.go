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

const accountColumns = `id, name, type, balance, currency, description, sort_order, created_at, updated_at, deleted_at`

func scanAccount(row scanner) (core.Account, error) {
	var (
		a       core.Account
		desc    sql.NullString
		deleted sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Balance, &a.Currency, &desc,
		&a.SortOrder, &a.CreatedAt, &a.UpdatedAt, &deleted)
	if err != nil {
		return core.Account{}, err
	}
	a.Description = nullString(desc)
	a.DeletedAt = nullTime(deleted)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

// ListAccounts returns live accounts by ascending sort position.
func (q *Queries) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := q.query(ctx, `SELECT `+accountColumns+` FROM accounts
		WHERE deleted_at IS NULL
		ORDER BY sort_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]core.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetAccount returns a live account or core.ErrNotFound.
func (q *Queries) GetAccount(ctx context.Context, id uuid.UUID) (core.Account, error) {
	a, err := scanAccount(q.queryRow(ctx, `SELECT `+accountColumns+` FROM accounts
		WHERE id = ? AND deleted_at IS NULL`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.NotFound("account")
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (q *Queries) InsertAccount(ctx context.Context, a core.Account) error {
	_, err := q.exec(ctx, `INSERT INTO accounts
		(id, name, type, balance, currency, description, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Type), a.Balance, a.Currency, a.Description, a.SortOrder, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Conflict("account", "account already exists")
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// UpdateAccount writes every mutable column of a live account.
func (q *Queries) UpdateAccount(ctx context.Context, a core.Account) error {
	err := q.execOne(ctx, "account", `UPDATE accounts SET
		name = ?, type = ?, balance = ?, currency = ?, description = ?, sort_order = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		a.Name, string(a.Type), a.Balance, a.Currency, a.Description, a.SortOrder, a.UpdatedAt, a.ID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("update account: %w", err)
	}
	return err
}

func (q *Queries) SoftDeleteAccount(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := q.execOne(ctx, "account", `UPDATE accounts SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, at.UTC(), at.UTC(), id)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("soft delete account: %w", err)
	}
	return err
}
