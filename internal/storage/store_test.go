package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantDialect Dialect
		wantDriver  string
		wantErr     bool
	}{
		{name: "sqlite relative", url: "sqlite://data/fintrack.db", wantDialect: SQLite, wantDriver: "sqlite"},
		{name: "sqlite absolute", url: "sqlite:///var/lib/fintrack.db", wantDialect: SQLite, wantDriver: "sqlite"},
		{name: "postgres", url: "postgres://u:p@localhost/fintrack", wantDialect: Postgres, wantDriver: "pgx"},
		{name: "postgresql", url: "postgresql://localhost/fintrack", wantDialect: Postgres, wantDriver: "pgx"},
		{name: "empty sqlite path", url: "sqlite://", wantErr: true},
		{name: "unsupported", url: "mysql://localhost/fintrack", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialect, driver, dsn, err := parseDatabaseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, dialect)
			assert.Equal(t, tt.wantDriver, driver)
			assert.NotEmpty(t, dsn)
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"/tmp/a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite",
		sqliteDSN("/tmp/a.db"))
	assert.Contains(t, sqliteDSN("/tmp/a.db?mode=rwc"), "mode=rwc&_pragma=foreign_keys(1)")
}

func TestRebind(t *testing.T) {
	pg := &Queries{dialect: Postgres}
	lite := &Queries{dialect: SQLite}
	q := `UPDATE accounts SET name = ?, balance = ? WHERE id = ?`

	assert.Equal(t, `UPDATE accounts SET name = $1, balance = $2 WHERE id = $3`, pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestOpen_MigratesIdempotently(t *testing.T) {
	path := "sqlite://" + filepath.Join(t.TempDir(), "fintrack.db")

	first, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer second.Close()

	v, dirty, err := MigrationVersion(path)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), v)
}

func TestStore_Ping(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	require.NoError(t, store.Close())
	err := store.Ping(context.Background())
	assert.True(t, errors.Is(err, core.ErrDownstream))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	acc := core.NewAccount(core.AccountCreate{Name: "Cash", Type: core.AccountCash, Currency: "USD"}, time.Now())
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(q *Queries) error {
		if err := q.InsertAccount(ctx, acc); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.GetAccount(ctx, acc.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
