package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"

	"github.com/google/uuid"
)

const userColumns = `id, email, name, hashed_password, created_at, updated_at`

const emailConflict = "email already registered"

func scanUser(row scanner) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.HashedPassword, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return core.User{}, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (q *Queries) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := q.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]core.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (core.User, error) {
	return q.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return q.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (q *Queries) getUser(ctx context.Context, query string, arg any) (core.User, error) {
	u, err := scanUser(q.queryRow(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.NotFound("user")
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (q *Queries) InsertUser(ctx context.Context, u core.User) error {
	_, err := q.exec(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.HashedPassword, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Conflict("user", emailConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (q *Queries) UpdateUser(ctx context.Context, u core.User) error {
	err := q.execOne(ctx, "user", `UPDATE users SET email = ?, name = ?, hashed_password = ?, updated_at = ?
		WHERE id = ?`, u.Email, u.Name, u.HashedPassword, u.UpdatedAt, u.ID)
	switch {
	case err == nil, errors.Is(err, core.ErrNotFound):
		return err
	case isUniqueViolation(err):
		return core.Conflict("user", emailConflict)
	default:
		return fmt.Errorf("update user: %w", err)
	}
}

// DeleteUser removes the row. Users are not soft-deleted.
func (q *Queries) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := q.execOne(ctx, "user", `DELETE FROM users WHERE id = ?`, id)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete user: %w", err)
	}
	return err
}
