package services

import (
	"context"
	"testing"

	"fintrack/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryInput(name string) core.CategoryCreate {
	return core.CategoryCreate{Name: name, Type: core.Expense}
}

func TestCategoryService_DuplicateConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCategoryService(f.store, f.opts)

	_, err := svc.Create(ctx, categoryInput("Food"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, categoryInput("Food"))
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.NotErrorIs(t, err, core.ErrNotFound)
	assert.False(t, core.IsValidationError(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// same name under the other type is allowed
	_, err = svc.Create(ctx, core.CategoryCreate{Name: "Food", Type: core.Income})
	require.NoError(t, err)

	assert.Equal(t, []string{"category.created", "category.created"}, f.publisher.actions())
}

func TestCategoryService_RenameIntoConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCategoryService(f.store, f.opts)

	_, err := svc.Create(ctx, categoryInput("Food"))
	require.NoError(t, err)
	other, err := svc.Create(ctx, categoryInput("Travel"))
	require.NoError(t, err)

	name := "Food"
	_, err = svc.Update(ctx, other.ID, core.CategoryUpdate{Name: &name})
	assert.ErrorIs(t, err, core.ErrConflict)

	got, err := svc.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Travel", got.Name, "failed update leaves the row untouched")
}

func TestCategoryService_NameReusableAfterDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCategoryService(f.store, f.opts)

	food, err := svc.Create(ctx, categoryInput("Food"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, food.ID))

	again, err := svc.Create(ctx, categoryInput("Food"))
	require.NoError(t, err)
	assert.NotEqual(t, food.ID, again.ID)
}

func TestCategoryService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCategoryService(f.store, f.opts)

	color := "#ff8800"
	icon := "cart"
	c, err := svc.Create(ctx, core.CategoryCreate{Name: "Groceries", Type: core.Expense, Color: &color, Icon: &icon})
	require.NoError(t, err)

	c, err = svc.Update(ctx, c.ID, core.CategoryUpdate{Icon: core.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, c.Icon)
	require.NotNil(t, c.Color)
	assert.Equal(t, "#ff8800", *c.Color)
	assert.Equal(t, "Groceries", c.Name)
	assert.Equal(t, core.Expense, c.Type)
}
