package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/dailyexpression/internal/config"
	"github.com/at-ishikawa/dailyexpression/internal/database"
	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/progress"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

// File names of the yaml storage driver under storage.directory
const (
	ScheduleFile = "schedule.yml"
	ProgressFile = "progress.yml"
)

// Dependencies are the components shared by the CLI and the server
type Dependencies struct {
	Config  *config.Config
	Clock   date.Clock
	Catalog *expression.Catalog
	Store   srs.Store
	Engine  *srs.Engine
	Tracker *progress.Tracker

	db *sqlx.DB
}

type Option func(*options)

type options struct {
	clock  date.Clock
	logger *slog.Logger
}

// WithClock replaces the system clock, e.g. to pretend today is another day
func WithClock(clock date.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Build loads the catalog and opens the storage chosen by cfg.
// The caller must Close the returned Dependencies.
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (*Dependencies, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		clock, err := date.NewSystemClock(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("date.NewSystemClock(%s) > %w", cfg.Timezone, err)
		}
		o.clock = clock
	}

	catalog, err := expression.Load(ctx, cfg.Expressions.SourceOptions())
	if err != nil {
		return nil, fmt.Errorf("expression.Load() > %w", err)
	}

	deps := &Dependencies{
		Config:  cfg,
		Clock:   o.clock,
		Catalog: catalog,
	}
	repository, err := deps.openStorage(ctx)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}

	deps.Engine = srs.NewEngine(deps.Store, o.clock, srs.WithLogger(o.logger))
	deps.Tracker = progress.NewTracker(repository, deps.Engine, catalog)
	o.logger.Debug("built dependencies",
		slog.String("storage", cfg.Storage.Driver),
		slog.Int("expressions", catalog.Len()),
		slog.String("today", o.clock.Today().String()),
	)
	return deps, nil
}

func (deps *Dependencies) openStorage(ctx context.Context) (progress.Repository, error) {
	storage := deps.Config.Storage
	switch storage.Driver {
	case config.StorageDriverYAML:
		store, err := srs.OpenYAMLStore(filepath.Join(storage.Directory, ScheduleFile))
		if err != nil {
			return nil, fmt.Errorf("srs.OpenYAMLStore() > %w", err)
		}
		repository, err := progress.OpenYAMLRepository(filepath.Join(storage.Directory, ProgressFile))
		if err != nil {
			return nil, fmt.Errorf("progress.OpenYAMLRepository() > %w", err)
		}
		deps.Store = store
		return repository, nil
	case config.StorageDriverSQLite, config.StorageDriverMySQL:
		db, err := deps.OpenDatabase(ctx)
		if err != nil {
			return nil, err
		}
		deps.db = db
		// SQLite files are created on demand, so their schema is kept current here.
		// MySQL schemas are migrated explicitly with the migrate command.
		if storage.Driver == config.StorageDriverSQLite {
			if _, err := database.Migrate(db); err != nil {
				return nil, fmt.Errorf("database.Migrate() > %w", err)
			}
		}
		store, err := srs.NewDBStore(db)
		if err != nil {
			return nil, fmt.Errorf("srs.NewDBStore() > %w", err)
		}
		repository, err := progress.NewDBRepository(db)
		if err != nil {
			return nil, fmt.Errorf("progress.NewDBRepository() > %w", err)
		}
		deps.Store = store
		return repository, nil
	}
	return nil, fmt.Errorf("%w: %q", database.ErrUnsupportedDriver, storage.Driver)
}

// OpenDatabase opens and pings the configured database
func (deps *Dependencies) OpenDatabase(ctx context.Context) (*sqlx.DB, error) {
	storage := deps.Config.Storage
	if storage.Driver == config.StorageDriverSQLite {
		if err := os.MkdirAll(filepath.Dir(storage.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(storage.SQLitePath), err)
		}
	}
	db, err := database.Open(storage, deps.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	if err := database.Ping(ctx, db, deps.Config.Database.PingAttempts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database.Ping() > %w", err)
	}
	return db, nil
}

func (deps *Dependencies) Close() error {
	var errs []error
	if deps.db != nil {
		if err := deps.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db.Close() > %w", err))
		}
	}
	return errors.Join(errs...)
}
