package services

import (
	"context"
	"encoding/json"
	"testing"

	"fintrack/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewUserService(f.store, bcrypt.MinCost, f.opts)

	u, err := svc.Create(ctx, core.UserCreate{Email: " Ada@Example.com ", Name: "Ada", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("correct horse")))

	body, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")

	_, err = svc.Create(ctx, core.UserCreate{Email: "ada@example.com", Name: "Other", Password: "password123"})
	assert.ErrorIs(t, err, core.ErrConflict)

	newPassword := "battery staple"
	updated, err := svc.Update(ctx, u.ID, core.UserUpdate{Password: &newPassword})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "ada@example.com", updated.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.HashedPassword), []byte(newPassword)))

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), core.ErrNotFound)

	assert.Equal(t, []string{"user.created", "user.updated", "user.deleted"}, f.publisher.actions())
}

func TestUserService_Validation(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store, bcrypt.MinCost, f.opts)

	tests := []struct {
		name string
		in   core.UserCreate
	}{
		{"bad email", core.UserCreate{Email: "not-an-email", Name: "X", Password: "password123"}},
		{"short password", core.UserCreate{Email: "x@example.com", Name: "X", Password: "short"}},
		{"blank name", core.UserCreate{Email: "x@example.com", Name: " ", Password: "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			assert.True(t, core.IsValidationError(err), "got %v", err)
		})
	}
}

func TestNewUserService_ClampsCost(t *testing.T) {
	svc := NewUserService(nil, 99, Options{})
	assert.Equal(t, bcrypt.DefaultCost, svc.cost)
}
