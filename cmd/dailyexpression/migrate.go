package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dailyexpression/internal/bootstrap"
	"github.com/at-ishikawa/dailyexpression/internal/config"
	"github.com/at-ishikawa/dailyexpression/internal/database"
	"github.com/at-ishikawa/dailyexpression/internal/datasync"
	"github.com/at-ishikawa/dailyexpression/internal/progress"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database migrations of the sqlite or mysql storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			version, err := database.Migrate(db)
			if err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database to version %d\n", cfg.Storage.Driver, version)
			return nil
		},
	}

	migrateCmd.AddCommand(newMigrateYAMLCommand(true))
	migrateCmd.AddCommand(newMigrateYAMLCommand(false))
	return migrateCmd
}

// newMigrateYAMLCommand copies between the yaml files and the database,
// into the database when toDatabase is set.
func newMigrateYAMLCommand(toDatabase bool) *cobra.Command {
	var (
		directory      string
		dryRun         bool
		updateExisting bool
	)

	use, short := "export-yaml", "Export the database into the yaml storage files"
	if toDatabase {
		use, short = "import-yaml", "Import the yaml storage files into the database"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()
			if _, err := database.Migrate(db); err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}

			if directory == "" {
				directory = cfg.Storage.Directory
			}
			yamlStorage, err := openYAMLStorage(directory)
			if err != nil {
				return err
			}
			dbStorage, err := openDBStorage(db)
			if err != nil {
				return err
			}

			source, destination := dbStorage, yamlStorage
			if toDatabase {
				source, destination = yamlStorage, dbStorage
			}
			out := cmd.OutOrStdout()
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := datasync.NewImporter(source, destination, out).Import(ctx, opts)
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}

			fmt.Fprintln(out, "\nImport Summary:")
			if opts.DryRun {
				fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			fmt.Fprintf(out, "  Progress:   %d new, %d skipped, %d updated\n", result.ProgressNew, result.ProgressSkipped, result.ProgressUpdated)
			fmt.Fprintf(out, "  Schedules:  %d new, %d skipped, %d updated\n", result.RecordsNew, result.RecordsSkipped, result.RecordsUpdated)
			fmt.Fprintf(out, "  Challenges: %d new, %d skipped, %d updated\n", result.ChallengesNew, result.ChallengesSkipped, result.ChallengesUpdated)
			return nil
		},
	}

	cmd.Flags().StringVar(&directory, "directory", "", "Directory of the yaml storage files, storage.directory by default")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the destination")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Overwrite existing entries that differ")
	return cmd
}

// openDatabase opens the sqlite or mysql database of the configuration
func openDatabase(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Storage.Driver == config.StorageDriverYAML {
		return nil, nil, fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
	}

	deps := &bootstrap.Dependencies{Config: cfg}
	db, err := deps.OpenDatabase(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func openYAMLStorage(directory string) (datasync.Storage, error) {
	store, err := srs.OpenYAMLStore(filepath.Join(directory, bootstrap.ScheduleFile))
	if err != nil {
		return datasync.Storage{}, fmt.Errorf("srs.OpenYAMLStore() > %w", err)
	}
	repository, err := progress.OpenYAMLRepository(filepath.Join(directory, bootstrap.ProgressFile))
	if err != nil {
		return datasync.Storage{}, fmt.Errorf("progress.OpenYAMLRepository() > %w", err)
	}
	return datasync.Storage{Store: store, Repository: repository}, nil
}

func openDBStorage(db *sqlx.DB) (datasync.Storage, error) {
	store, err := srs.NewDBStore(db)
	if err != nil {
		return datasync.Storage{}, fmt.Errorf("srs.NewDBStore() > %w", err)
	}
	repository, err := progress.NewDBRepository(db)
	if err != nil {
		return datasync.Storage{}, fmt.Errorf("progress.NewDBRepository() > %w", err)
	}
	return datasync.Storage{Store: store, Repository: repository}, nil
}
