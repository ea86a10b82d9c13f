// Package config loads server settings from an optional YAML file, an
// optional .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	// HTTP Server
	Port       string `yaml:"port"`
	StaticPath string `yaml:"static_path"`
	LogLevel   string `yaml:"log_level"`
	Timezone   string `yaml:"timezone"`

	// Storage
	DataBackend  string `yaml:"data_backend"`
	SQLiteDBPath string `yaml:"sqlite_db_path"`
	DatabaseURL  string `yaml:"database_url"`

	// Description generator
	GeminiAPIKey    string        `yaml:"gemini_api_key"`
	GeminiModel     string        `yaml:"gemini_model"`
	DescribeTimeout time.Duration `yaml:"describe_timeout"`

	// AMQP change notifications, disabled when AMQPURL is empty
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`

	// Snapshots, disabled when BackupCron is empty
	BackupDir  string `yaml:"backup_dir"`
	BackupCron string `yaml:"backup_cron"`
	BackupKeep int    `yaml:"backup_keep"`

	// Access protection, disabled unless both are set
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	JWTSecret         string        `yaml:"jwt_secret"`
	TokenTTL          time.Duration `yaml:"token_ttl"`

	// problems collects values that could not be parsed while loading.
	problems []string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:            "8080",
		StaticPath:      "./static",
		LogLevel:        "info",
		DataBackend:     BackendSQLite,
		SQLiteDBPath:    "./data/onbeventi.db",
		GeminiModel:     "gemini-2.5-flash",
		DescribeTimeout: 30 * time.Second,
		AMQPExchange:    "onbeventi",
		BackupDir:       "./data/backups",
		BackupKeep:      14,
		TokenTTL:        12 * time.Hour,
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if
// set), then environment variables. It does not validate.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Port, "PORT")
	setString(&c.StaticPath, "STATIC_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Timezone, "TIMEZONE")

	setString(&c.DataBackend, "DATA_BACKEND")
	setString(&c.SQLiteDBPath, "SQLITE_DB_PATH")
	setString(&c.DatabaseURL, "DATABASE_URL")

	// API_KEY is the older name; GEMINI_API_KEY wins when both are set.
	setString(&c.GeminiAPIKey, "API_KEY")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	c.setDuration(&c.DescribeTimeout, "DESCRIBE_TIMEOUT")

	setString(&c.AMQPURL, "AMQP_URL")
	setString(&c.AMQPExchange, "AMQP_EXCHANGE")

	setString(&c.BackupDir, "BACKUP_DIR")
	setString(&c.BackupCron, "BACKUP_CRON")
	c.setInt(&c.BackupKeep, "BACKUP_KEEP")

	setString(&c.AdminPasswordHash, "ADMIN_PASSWORD_HASH")
	setString(&c.JWTSecret, "JWT_SECRET")
	c.setDuration(&c.TokenTTL, "TOKEN_TTL")
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func (c *Config) setInt(dst *int, key string) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be a number", key, value))
		return
	}
	*dst = i
}

func (c *Config) setDuration(dst *time.Duration, key string) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be a duration such as 30s", key, value))
		return
	}
	*dst = d
}

// AuthEnabled reports whether the API requires a login.
func (c *Config) AuthEnabled() bool {
	return c.AdminPasswordHash != "" && c.JWTSecret != ""
}

// Location returns the zone used for event dates, the local zone when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	errors := append([]string(nil), c.problems...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when using postgres backend")
		}
	case BackendMemory:
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v",
			c.DataBackend, []string{BackendSQLite, BackendMemory, BackendPostgres}))
	}

	if c.GeminiModel == "" {
		errors = append(errors, "Gemini model cannot be empty")
	}
	if c.DescribeTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid describe timeout %v: must be positive", c.DescribeTimeout))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BackupCron != "" {
		if _, err := cron.ParseStandard(c.BackupCron); err != nil {
			errors = append(errors, fmt.Sprintf("invalid backup schedule '%s': %v", c.BackupCron, err))
		}
		if c.BackupDir == "" {
			errors = append(errors, "backup directory cannot be empty when a backup schedule is set")
		}
		if c.BackupKeep < 1 {
			errors = append(errors, fmt.Sprintf("invalid backup keep %d: must be at least 1", c.BackupKeep))
		}
	}

	if (c.AdminPasswordHash == "") != (c.JWTSecret == "") {
		errors = append(errors, "ADMIN_PASSWORD_HASH and JWT_SECRET must be set together")
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT secret must be at least 32 characters")
	}
	if c.AuthEnabled() && c.TokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid token TTL %v: must be positive", c.TokenTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}
