// Package database provides database connection management.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/at-ishikawa/dailyexpression/internal/config"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Open opens the database of the configured storage driver.
// The yaml driver has no database and is rejected.
func Open(storage config.StorageConfig, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch storage.Driver {
	case config.StorageDriverMySQL:
		return OpenMySQL(cfg)
	case config.StorageDriverSQLite:
		return OpenSQLite(storage.SQLitePath)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, storage.Driver)
}

// OpenMySQL opens a MySQL connection using the provided config.
func OpenMySQL(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	mysqlCfg.MultiStatements = true
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	if len(cfg.Params) > 0 {
		mysqlCfg.Params = cfg.Params
	}

	db, err := sqlx.Open(DriverMySQL, mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	return db, nil
}

// OpenSQLite opens the SQLite file at path, creating it on first write.
// SQLite allows a single writer, so the pool is limited to one connection.
func OpenSQLite(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Ping checks the connection, retrying while the server is starting up.
func Ping(ctx context.Context, db *sqlx.DB, attempts uint) error {
	if attempts == 0 {
		attempts = 1
	}
	err := retry.Do(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Debug("retrying database ping",
				"attempt", n+1,
				"error", err,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("db.PingContext() > %w", err)
	}
	return nil
}
