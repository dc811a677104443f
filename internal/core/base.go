package core

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the identity and timestamps shared by every stored entity.
type Base struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBase assigns a fresh identifier and sets both timestamps to now.
func NewBase(now time.Time) Base {
	now = now.UTC()
	return Base{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the last-modified timestamp.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}
