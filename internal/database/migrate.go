package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/dailyexpression/schemas"
)

// Migrate applies every pending migration of the dialect of db.
// It returns the schema version after the migration.
func Migrate(db *sqlx.DB) (uint, error) {
	driverName := db.DriverName()

	var (
		driver migratedb.Driver
		err    error
	)
	switch driverName {
	case DriverMySQL:
		driver, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driverName)
	}
	if err != nil {
		return 0, fmt.Errorf("%s.WithInstance() > %w", driverName, err)
	}

	source, err := iofs.New(schemas.Migrations, "migrations/"+driverName)
	if err != nil {
		return 0, fmt.Errorf("iofs.New(%s) > %w", driverName, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return 0, fmt.Errorf("migrate.NewWithInstance() > %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("m.Up() > %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("m.Version() > %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	slog.Default().Debug("migrated database",
		"driver", driverName,
		"version", version,
	)
	return version, nil
}
