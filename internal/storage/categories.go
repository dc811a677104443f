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

const categoryColumns = `id, name, type, color, icon, sort_order, created_at, updated_at, deleted_at`

const categoryConflict = "category with this name and type already exists"

func scanCategory(row scanner) (core.Category, error) {
	var (
		c           core.Category
		color, icon sql.NullString
		deleted     sql.NullTime
	)
	err := row.Scan(&c.ID, &c.Name, &c.Type, &color, &icon, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt, &deleted)
	if err != nil {
		return core.Category{}, err
	}
	c.Color = nullString(color)
	c.Icon = nullString(icon)
	c.DeletedAt = nullTime(deleted)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func (q *Queries) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := q.query(ctx, `SELECT `+categoryColumns+` FROM categories
		WHERE deleted_at IS NULL
		ORDER BY sort_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]core.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (q *Queries) GetCategory(ctx context.Context, id uuid.UUID) (core.Category, error) {
	c, err := scanCategory(q.queryRow(ctx, `SELECT `+categoryColumns+` FROM categories
		WHERE id = ? AND deleted_at IS NULL`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.NotFound("category")
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// InsertCategory fails with core.ErrConflict when a live category already has the same name and type.
func (q *Queries) InsertCategory(ctx context.Context, c core.Category) error {
	_, err := q.exec(ctx, `INSERT INTO categories
		(id, name, type, color, icon, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(c.Type), c.Color, c.Icon, c.SortOrder, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Conflict("category", categoryConflict)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (q *Queries) UpdateCategory(ctx context.Context, c core.Category) error {
	err := q.execOne(ctx, "category", `UPDATE categories SET
		name = ?, type = ?, color = ?, icon = ?, sort_order = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		c.Name, string(c.Type), c.Color, c.Icon, c.SortOrder, c.UpdatedAt, c.ID)
	switch {
	case err == nil, errors.Is(err, core.ErrNotFound):
		return err
	case isUniqueViolation(err):
		return core.Conflict("category", categoryConflict)
	default:
		return fmt.Errorf("update category: %w", err)
	}
}

func (q *Queries) SoftDeleteCategory(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := q.execOne(ctx, "category", `UPDATE categories SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, at.UTC(), at.UTC(), id)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("soft delete category: %w", err)
	}
	return err
}
