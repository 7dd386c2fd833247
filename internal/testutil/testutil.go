// Package testutil provides shared test helpers for creating config files and progress fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dailyexpression/internal/bootstrap"
	"github.com/at-ishikawa/dailyexpression/internal/config"
	"github.com/at-ishikawa/dailyexpression/internal/date"
)

// SetupTestConfig creates a config file that keeps every file under tmpDir,
// using the yaml storage driver. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()
	return writeConfig(t, tmpDir, fmt.Sprintf(`storage:
  driver: yaml
  directory: %s
`, filepath.Join(tmpDir, "data")))
}

// SetupSQLiteTestConfig is SetupTestConfig with the sqlite storage driver.
func SetupSQLiteTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()
	return writeConfig(t, tmpDir, fmt.Sprintf(`storage:
  driver: sqlite
  sqlite_path: %s
`, filepath.Join(tmpDir, "data", "dailyexpression.db")))
}

func writeConfig(t *testing.T, tmpDir, storage string) string {
	t.Helper()
	for _, d := range []string{"data", "outputs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := storage + fmt.Sprintf(`quiz:
  question_count: 3
daily:
  challenge_size: 3
outputs:
  report_directory: %s
`, filepath.Join(tmpDir, "outputs"))

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// MarkLearned marks ids as learned on learnedDate in the storage configured by cfgPath.
func MarkLearned(t *testing.T, cfgPath string, learnedDate date.Date, ids ...string) {
	t.Helper()
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	ctx := context.Background()
	deps, err := bootstrap.Build(ctx, cfg, bootstrap.WithClock(date.FixedClock(learnedDate)))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, deps.Close())
	}()

	for _, id := range ids {
		_, err := deps.Tracker.MarkLearned(ctx, id)
		require.NoError(t, err, "MarkLearned(%s)", id)
	}
}

// CompleteChallenge saves the daily challenge score of day in the storage of cfgPath.
func CompleteChallenge(t *testing.T, cfgPath string, day date.Date, score, total int) {
	t.Helper()
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	ctx := context.Background()
	deps, err := bootstrap.Build(ctx, cfg, bootstrap.WithClock(date.FixedClock(day)))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, deps.Close())
	}()

	_, err = deps.Tracker.CompleteChallenge(ctx, score, total)
	require.NoError(t, err)
}
