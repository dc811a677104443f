package storage

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	account  core.Account
	category core.Category
}

func seed(t *testing.T, store *Store) fixture {
	t.Helper()
	ctx := context.Background()
	acc := core.NewAccount(core.AccountCreate{Name: "Checking", Type: core.AccountChecking, Currency: "USD", Balance: decimal.NewFromInt(1000)}, time.Now())
	cat := core.NewCategory(core.CategoryCreate{Name: "Food", Type: core.Expense}, time.Now())
	require.NoError(t, store.InsertAccount(ctx, acc))
	require.NoError(t, store.InsertCategory(ctx, cat))
	return fixture{account: acc, category: cat}
}

func newTx(f fixture, withCategory bool, sort float64, date time.Time) core.Transaction {
	in := core.TransactionCreate{
		AccountID: f.account.ID,
		Type:      core.Expense,
		Amount:    decimal.RequireFromString("50.25"),
		Date:      date,
		SortOrder: sort,
	}
	if withCategory {
		id := f.category.ID
		in.CategoryID = &id
	}
	return core.NewTransaction(in, time.Now())
}

func TestTransactions_ProjectionResolvesRelations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seed(t, store)

	tx := newTx(f, true, 0, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
	require.NoError(t, store.InsertTransaction(ctx, tx))

	got, err := store.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("50.25")))
	assert.True(t, got.Date.Equal(tx.Date))
	assert.False(t, got.IsReconciled)

	require.NotNil(t, got.Account)
	assert.Equal(t, f.account.ID, got.Account.ID)
	assert.Equal(t, "Checking", got.Account.Name)
	assert.True(t, got.Account.Balance.Equal(decimal.NewFromInt(1000)))

	require.NotNil(t, got.Category)
	assert.Equal(t, f.category.ID, got.Category.ID)
	assert.Equal(t, "Food", got.Category.Name)
	assert.Equal(t, core.Expense, got.Category.Type)

	list, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Account)
	require.NotNil(t, list[0].Category)
}

func TestTransactions_WithoutCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seed(t, store)

	tx := newTx(f, false, 0, time.Now())
	require.NoError(t, store.InsertTransaction(ctx, tx))

	got, err := store.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
	require.NotNil(t, got.Account)
}

func TestTransactions_SoftDeletedRelations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seed(t, store)

	tx := newTx(f, true, 0, time.Now())
	require.NoError(t, store.InsertTransaction(ctx, tx))

	require.NoError(t, store.SoftDeleteCategory(ctx, f.category.ID, time.Now()))
	require.NoError(t, store.SoftDeleteAccount(ctx, f.account.ID, time.Now()))

	got, err := store.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category, "deleted category is not embedded")
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, f.category.ID, *got.CategoryID)
	require.NotNil(t, got.Account, "account stays embedded")
	assert.NotNil(t, got.Account.DeletedAt)
}

func TestTransactions_ListOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seed(t, store)
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	late := newTx(f, false, 1, day(20))
	early := newTx(f, false, 0, day(1))
	newest := newTx(f, false, 0, day(10))
	for _, tx := range []core.Transaction{late, early, newest} {
		require.NoError(t, store.InsertTransaction(ctx, tx))
	}

	list, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, newest.ID, list[0].ID)
	assert.Equal(t, early.ID, list[1].ID)
	assert.Equal(t, late.ID, list[2].ID)
}

func TestTransactions_UpdateAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seed(t, store)

	tx := newTx(f, true, 0, time.Now())
	require.NoError(t, store.InsertTransaction(ctx, tx))

	tx.CategoryID = nil
	tx.IsReconciled = true
	tx.Touch(time.Now().Add(time.Second))
	require.NoError(t, store.UpdateTransaction(ctx, tx))

	got, err := store.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	assert.True(t, got.IsReconciled)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	require.NoError(t, store.SoftDeleteTransaction(ctx, tx.ID, time.Now()))
	_, err = store.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, store.SoftDeleteTransaction(ctx, tx.ID, time.Now()), core.ErrNotFound)
}

func TestTransactions_ForeignKeyEnforced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seed(t, store)

	tx := newTx(f, false, 0, time.Now())
	tx.AccountID = uuid.New()
	err := store.InsertTransaction(ctx, tx)
	assert.True(t, core.IsValidationError(err), "got %v", err)
}

func TestTransactions_AmountKeepsEveryDigit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seed(t, store)

	tx := newTx(f, false, 0, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	tx.Amount = decimal.RequireFromString("9999999999999999.99")
	require.NoError(t, store.InsertTransaction(ctx, tx))

	got, err := store.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(tx.Amount), "read %s", got.Amount)
	require.NotNil(t, got.Account)
	assert.True(t, got.Account.Balance.Equal(decimal.NewFromInt(1000)))
}
