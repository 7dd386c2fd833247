package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorageDriverYAML   = "yaml"
	StorageDriverSQLite = "sqlite"
	StorageDriverMySQL  = "mysql"
)

type Config struct {
	// Timezone decides when "today" starts. Empty means UTC.
	Timezone    string            `mapstructure:"timezone" validate:"omitempty,timezone"`
	Expressions ExpressionsConfig `mapstructure:"expressions"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Quiz        QuizConfig        `mapstructure:"quiz"`
	Daily       DailyConfig       `mapstructure:"daily"`
	Server      ServerConfig      `mapstructure:"server"`
	Outputs     OutputsConfig     `mapstructure:"outputs"`
}

type ExpressionsConfig struct {
	// File and SourceURL are both optional; the bundled catalog is used without them
	File          string `mapstructure:"file" validate:"omitempty,file"`
	SourceURL     string `mapstructure:"source_url" validate:"omitempty,url"`
	RetryAttempts uint   `mapstructure:"retry_attempts"`

	// CacheDirectory keeps a copy of the document downloaded from SourceURL
	CacheDirectory string `mapstructure:"cache_directory"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver" validate:"required,oneof=yaml sqlite mysql"`
	Directory  string `mapstructure:"directory" validate:"required_if=Driver yaml"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
	PingAttempts    uint              `mapstructure:"ping_attempts"`
}

type QuizConfig struct {
	QuestionCount int      `mapstructure:"question_count" validate:"min=1,max=100"`
	Types         []string `mapstructure:"types" validate:"min=1,dive,quiz_type"`
	Categories    []string `mapstructure:"categories" validate:"dive,category"`
}

type DailyConfig struct {
	ChallengeSize int `mapstructure:"challenge_size" validate:"min=1"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`

	// QuizSessionTTL is how long an unfinished quiz is kept, e.g. "30m"
	QuizSessionTTL time.Duration `mapstructure:"quiz_session_ttl" validate:"min=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type OutputsConfig struct {
	ReportDirectory string `mapstructure:"report_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dailyexpression")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// Load is a shortcut for NewConfigLoader(configFile).Load()
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("timezone", "")
	v.SetDefault("expressions.file", "")
	v.SetDefault("expressions.source_url", "")
	v.SetDefault("expressions.retry_attempts", 2)
	v.SetDefault("storage.driver", StorageDriverYAML)
	v.SetDefault("storage.directory", "data")
	v.SetDefault("storage.sqlite_path", filepath.Join("data", "dailyexpression.db"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "dailyexpression")
	v.SetDefault("database.username", "user")
	v.SetDefault("database.ping_attempts", 3)
	v.SetDefault("quiz.question_count", 10)
	v.SetDefault("quiz.types", []string{"multiple-choice", "fill-in-blank"})
	v.SetDefault("daily.challenge_size", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.quiz_session_ttl", "30m")
	v.SetDefault("outputs.report_directory", "outputs")

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("timezone", "DAILYEXPRESSION_TIMEZONE"); err != nil {
		return nil, fmt.Errorf("failed to bind DAILYEXPRESSION_TIMEZONE environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
