package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

const settingsColumns = `id, currency, notifications_enabled, ai_provider, ai_model, created_at, updated_at`

func scanSettings(row scanner) (core.Settings, error) {
	var s core.Settings
	err := row.Scan(&s.ID, &s.Currency, &s.NotificationsEnabled, &s.AIProvider, &s.AIModel, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return core.Settings{}, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

// EnsureSettings inserts defaults under the fixed key unless a row already
// exists, then reads the row back. Concurrent first calls both succeed.
func (q *Queries) EnsureSettings(ctx context.Context, defaults core.Settings) (core.Settings, error) {
	_, err := q.exec(ctx, `INSERT INTO settings (`+settingsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		defaults.ID, defaults.Currency, defaults.NotificationsEnabled, string(defaults.AIProvider),
		defaults.AIModel, defaults.CreatedAt, defaults.UpdatedAt)
	if err != nil {
		return core.Settings{}, fmt.Errorf("upsert settings: %w", err)
	}
	return q.GetSettings(ctx, defaults.ID)
}

func (q *Queries) GetSettings(ctx context.Context, id string) (core.Settings, error) {
	s, err := scanSettings(q.queryRow(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settings{}, core.NotFound("settings")
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (q *Queries) UpdateSettings(ctx context.Context, s core.Settings) error {
	err := q.execOne(ctx, "settings", `UPDATE settings SET
		currency = ?, notifications_enabled = ?, ai_provider = ?, ai_model = ?, updated_at = ?
		WHERE id = ?`,
		s.Currency, s.NotificationsEnabled, string(s.AIProvider), s.AIModel, s.UpdatedAt, s.ID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("update settings: %w", err)
	}
	return err
}
