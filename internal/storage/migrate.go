package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations applies every pending migration for the dialect. It uses its
// own connection because the migrate drivers close the handle they are given.
func RunMigrations(dialect Dialect, driverName, dsn string) error {
	m, err := newMigrator(dialect, driverName, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations; steps <= 0 rolls back all of them.
func MigrateDown(databaseURL string, steps int) error {
	dialect, driverName, dsn, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return err
	}
	m, err := newMigrator(dialect, driverName, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if steps <= 0 {
		err = m.Down()
	} else {
		err = m.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied schema version.
func MigrationVersion(databaseURL string) (uint, bool, error) {
	dialect, driverName, dsn, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return 0, false, err
	}
	m, err := newMigrator(dialect, driverName, dsn)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// MigrateUp applies pending migrations for a database URL.
func MigrateUp(databaseURL string) error {
	dialect, driverName, dsn, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return err
	}
	return RunMigrations(dialect, driverName, dsn)
}

func newMigrator(dialect Dialect, driverName, dsn string) (*migrate.Migrate, error) {
	migrateDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+dialect.String())
	if err != nil {
		migrateDB.Close()
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	var m *migrate.Migrate
	switch dialect {
	case Postgres:
		driver, err := pgxmigrate.WithInstance(migrateDB, &pgxmigrate.Config{})
		if err != nil {
			migrateDB.Close()
			return nil, fmt.Errorf("create pgx driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "pgx5", driver)
		if err != nil {
			return nil, fmt.Errorf("create migrate instance: %w", err)
		}
	default:
		driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
		if err != nil {
			migrateDB.Close()
			return nil, fmt.Errorf("create sqlite driver: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", driver)
		if err != nil {
			return nil, fmt.Errorf("create migrate instance: %w", err)
		}
	}
	return m, nil
}
