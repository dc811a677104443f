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

func TestAccounts_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	desc := "salary account"

	acc := core.NewAccount(core.AccountCreate{
		Name:        "Checking",
		Type:        core.AccountChecking,
		Balance:     decimal.RequireFromString("1000.50"),
		Currency:    "USD",
		Description: &desc,
		SortOrder:   1.5,
	}, time.Now())
	require.NoError(t, store.InsertAccount(ctx, acc))

	got, err := store.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, "Checking", got.Name)
	assert.Equal(t, core.AccountChecking, got.Type)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1000.50")), "balance %s", got.Balance)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	assert.Equal(t, 1.5, got.SortOrder)
	assert.WithinDuration(t, acc.CreatedAt, got.CreatedAt, time.Microsecond)
	assert.Nil(t, got.DeletedAt)
}

func TestAccounts_ListOrderedBySortOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i, name := range []string{"third", "first", "second"} {
		sort := map[string]float64{"first": 0, "second": 1, "third": 2}[name]
		acc := core.NewAccount(core.AccountCreate{Name: name, Type: core.AccountOther, Currency: "USD", SortOrder: sort},
			now.Add(time.Duration(i)*time.Second))
		require.NoError(t, store.InsertAccount(ctx, acc))
	}

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "first", accounts[0].Name)
	assert.Equal(t, "second", accounts[1].Name)
	assert.Equal(t, "third", accounts[2].Name)
}

func TestAccounts_SoftDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	acc := core.NewAccount(core.AccountCreate{Name: "Savings", Type: core.AccountSavings, Currency: "EUR"}, time.Now())
	require.NoError(t, store.InsertAccount(ctx, acc))

	require.NoError(t, store.SoftDeleteAccount(ctx, acc.ID, time.Now()))

	_, err := store.GetAccount(ctx, acc.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	// the row is still there
	var n int
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE id = ?`, acc.ID).Scan(&n))
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, store.SoftDeleteAccount(ctx, acc.ID, time.Now()), core.ErrNotFound)

	acc.Name = "Revived"
	assert.ErrorIs(t, store.UpdateAccount(ctx, acc), core.ErrNotFound)
}

func TestAccounts_GetUnknown(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetAccount(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAccounts_MoneyKeepsEveryDigit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, v := range []string{"9999999999999999.99", "-1234567890123456.78", "0.01", "0"} {
		t.Run(v, func(t *testing.T) {
			acc := core.NewAccount(core.AccountCreate{
				Name:     "Account " + v,
				Type:     core.AccountSavings,
				Balance:  decimal.RequireFromString(v),
				Currency: "USD",
			}, time.Now())
			require.NoError(t, store.InsertAccount(ctx, acc))

			got, err := store.GetAccount(ctx, acc.ID)
			require.NoError(t, err)
			assert.True(t, got.Balance.Equal(acc.Balance), "stored %s, read %s", acc.Balance, got.Balance)
		})
	}
}
