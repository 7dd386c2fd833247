package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/quiz"
)

func defaultConfig() *Config {
	return &Config{
		Expressions: ExpressionsConfig{
			RetryAttempts: 2,
		},
		Storage: StorageConfig{
			Driver:     StorageDriverYAML,
			Directory:  "data",
			SQLitePath: filepath.Join("data", "dailyexpression.db"),
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         3306,
			Database:     "dailyexpression",
			Username:     "user",
			PingAttempts: 3,
		},
		Quiz: QuizConfig{
			QuestionCount: 10,
			Types:         []string{"multiple-choice", "fill-in-blank"},
		},
		Daily: DailyConfig{
			ChallengeSize: 5,
		},
		Server: ServerConfig{
			Port: 8080,
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
			},
			QuizSessionTTL: 30 * time.Minute,
		},
		Outputs: OutputsConfig{
			ReportDirectory: "outputs",
		},
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		wantErr           bool
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:            "no config file uses defaults",
			useExplicitPath: false,
			want:            defaultConfig,
		},
		{
			name: "valid config file with custom values",
			configContent: `timezone: Asia/Tokyo
storage:
  driver: sqlite
  sqlite_path: custom/progress.db
quiz:
  question_count: 20
  types: [fill-in-blank]
  categories: [Idioms, phrasal-verbs]
daily:
  challenge_size: 3
outputs:
  report_directory: custom/outputs
`,
			useExplicitPath: false,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Timezone = "Asia/Tokyo"
				cfg.Storage.Driver = StorageDriverSQLite
				cfg.Storage.SQLitePath = "custom/progress.db"
				cfg.Quiz = QuizConfig{
					QuestionCount: 20,
					Types:         []string{"fill-in-blank"},
					Categories:    []string{"Idioms", "phrasal-verbs"},
				}
				cfg.Daily.ChallengeSize = 3
				cfg.Outputs.ReportDirectory = "custom/outputs"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `storage:
  driver: yaml
  invalid yaml format here [[[
`,
			useExplicitPath: false,
			wantErr:         true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "invalid config structure uses defaults",
			configContent: `wrong_key:
  some_value: test
`,
			useExplicitPath: false,
			want:            defaultConfig,
		},
		{
			name: "explicit config file path",
			configContent: `storage:
  driver: mysql
database:
  host: db.internal
  port: 13306
server:
  port: 9000
  cors:
    allowed_origins: [https://example.com]
  quiz_session_ttl: 2h
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Storage.Driver = StorageDriverMySQL
				cfg.Database.Host = "db.internal"
				cfg.Database.Port = 13306
				cfg.Server.Port = 9000
				cfg.Server.CORS.AllowedOrigins = []string{"https://example.com"}
				cfg.Server.QuizSessionTTL = 2 * time.Hour
				return cfg
			},
		},
		{
			name: "unknown storage driver",
			configContent: `storage:
  driver: postgres
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"invalid configuration",
				"driver must be one of [yaml sqlite mysql]",
			},
		},
		{
			name: "unknown quiz type and category",
			configContent: `quiz:
  types: [essay]
  categories: [Slang]
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"quiz.types[0] must be one of multiple-choice, fill-in-blank",
				"quiz.categories[0] must be a known expression category",
			},
		},
		{
			name: "missing expressions file",
			configContent: `expressions:
  file: does/not/exist.yml
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"expressions.file must be an existing and readable file",
			},
		},
		{
			name: "zero challenge size",
			configContent: `daily:
  challenge_size: 0
`,
			useExplicitPath: true,
			wantErr:         true,
			wantErrorContains: []string{
				"challenge_size",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "config.yml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			} else {
				if tt.configContent != "" {
					configPath = filepath.Join(tempDir, "config.yaml")
					err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
					require.NoError(t, err)
				}

				originalDir, err := os.Getwd()
				require.NoError(t, err)
				defer func() {
					err := os.Chdir(originalDir)
					require.NoError(t, err)
				}()

				err = os.Chdir(tempDir)
				require.NoError(t, err)
				t.Setenv("HOME", tempDir)
				configPath = ""
			}

			got, err := Load(configPath)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DAILYEXPRESSION_TIMEZONE", "America/Los_Angeles")

	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("timezone: Asia/Tokyo\n"), 0644))

	got, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Database.Password)
	assert.Equal(t, "America/Los_Angeles", got.Timezone)
}

func TestQuizConfig_QuizSettings(t *testing.T) {
	settings, err := QuizConfig{
		QuestionCount: 4,
		Types:         []string{"Fill-In-Blank"},
		Categories:    []string{"phrasal-verbs", "idioms"},
	}.QuizSettings()
	require.NoError(t, err)
	assert.Equal(t, quiz.Settings{
		QuestionCount: 4,
		Types:         []quiz.Type{quiz.TypeFillInBlank},
		Categories:    []expression.Category{expression.CategoryPhrasalVerbs, expression.CategoryIdioms},
	}, settings)

	_, err = QuizConfig{QuestionCount: 1, Types: []string{"essay"}}.QuizSettings()
	assert.ErrorIs(t, err, quiz.ErrUnknownType)
}
