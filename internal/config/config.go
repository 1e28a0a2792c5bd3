package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicURL   string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		AppURL      string `yaml:"app_url" env:"SERVER_APP_URL"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	// JWT holds the settings used to verify session tokens issued by the
	// authentication provider.
	JWT struct {
		Secret          string `yaml:"secret" env:"JWT_SECRET"`
		Issuer          string `yaml:"issuer" env:"JWT_ISSUER"`
		TokenExpiration string `yaml:"token_expiration" env:"JWT_TOKEN_EXPIRATION"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Export struct {
		Mode    string `yaml:"mode" env:"EXPORT_MODE"`
		URL     string `yaml:"url" env:"EXPORT_URL"`
		APIKey  string `yaml:"api_key" env:"EXPORT_API_KEY"`
		Timeout string `yaml:"timeout" env:"EXPORT_TIMEOUT"`
	} `yaml:"export"`

	Notifications struct {
		FanOutTimeout             string `yaml:"fanout_timeout" env:"NOTIFICATIONS_FANOUT_TIMEOUT"`
		Async                     bool   `yaml:"async" env:"NOTIFICATIONS_ASYNC"`
		NotifyExhibitorOnDecision bool   `yaml:"notify_exhibitor_on_decision" env:"NOTIFICATIONS_NOTIFY_EXHIBITOR_ON_DECISION"`
	} `yaml:"notifications"`

	RateLimit struct {
		ApplyPerMinute int `yaml:"apply_per_minute" env:"RATE_LIMIT_APPLY_PER_MINUTE"`
		Burst          int `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"rate_limit"`

	Jobs struct {
		DeadlineCloserEnabled bool   `yaml:"deadline_closer_enabled" env:"JOBS_DEADLINE_CLOSER_ENABLED"`
		DeadlineCloserSpec    string `yaml:"deadline_closer_spec" env:"JOBS_DEADLINE_CLOSER_SPEC"`
	} `yaml:"jobs"`
}

// Export modes
const (
	ExportModeHTTP = "http"
	ExportModeCSV  = "csv"
)

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	err := loadFromEnv(config)
	if err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.AppURL = "http://localhost:3000"

	// Database defaults
	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "stallhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// JWT defaults
	config.JWT.Issuer = "stallhub.app"
	config.JWT.TokenExpiration = "1h"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.SMTP.Port = 587
	config.SMTP.FromName = "Stallhub"
	config.SMTP.UseTLS = true

	config.Export.Mode = ExportModeCSV
	config.Export.Timeout = "30s"

	config.Notifications.FanOutTimeout = "10s"
	config.Notifications.Async = true

	config.RateLimit.ApplyPerMinute = 10
	config.RateLimit.Burst = 5

	config.Jobs.DeadlineCloserEnabled = true
	config.Jobs.DeadlineCloserSpec = "@every 1h"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnvOverrides(config, os.LookupEnv)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.TokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT token expiration format: %w", err)
	}

	switch config.Export.Mode {
	case ExportModeCSV:
	case ExportModeHTTP:
		if config.Export.URL == "" {
			return fmt.Errorf("export url is required when export mode is %q", ExportModeHTTP)
		}
	default:
		return fmt.Errorf("unknown export mode %q", config.Export.Mode)
	}

	if _, err := time.ParseDuration(config.Export.Timeout); err != nil {
		return fmt.Errorf("invalid export timeout format: %w", err)
	}

	if _, err := time.ParseDuration(config.Notifications.FanOutTimeout); err != nil {
		return fmt.Errorf("invalid notification fan-out timeout format: %w", err)
	}

	if config.RateLimit.ApplyPerMinute <= 0 || config.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit values must be positive")
	}

	if config.Jobs.DeadlineCloserEnabled && config.Jobs.DeadlineCloserSpec == "" {
		return fmt.Errorf("deadline closer schedule is required when the job is enabled")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetPublicURL returns the externally reachable base URL of the API
func (c *Config) GetPublicURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}
