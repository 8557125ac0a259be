// Package config loads service configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/medbridge/insurance-api/pkg/logger"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// DatabaseConfig holds the relational store settings.
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_seconds"`
	MigrationsPath  string `yaml:"migrations_path"`
}

// AuthConfig holds token and credential settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
}

// RateLimitConfig holds per-caller request budget settings.
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	Burst             int `yaml:"burst"`
}

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig         `yaml:"server"`
	Database  DatabaseConfig       `yaml:"database"`
	Auth      AuthConfig           `yaml:"auth"`
	RateLimit RateLimitConfig      `yaml:"rate_limit"`
	Logging   logger.LoggingConfig `yaml:"logging"`
}

// Load reads config.yaml (or $CONFIG_PATH), applies environment overrides,
// and validates the result. A .env file is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific YAML file. A missing file
// is not an error; defaults and environment variables still apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env-only configuration
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database:  DatabaseConfig{Driver: "postgres", MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLifetime: 300, MigrationsPath: "migrations"},
		Auth:      AuthConfig{TokenTTLHours: 24, BcryptCost: 12},
		RateLimit: RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
		Logging:   logger.LoggingConfig{Level: "info", Format: "text", Output: "stdout"},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("MIGRATIONS_PATH"); v != "" {
		cfg.Database.MigrationsPath = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Database.Driver == "" || c.Database.DSN == "" {
		return fmt.Errorf("database configuration is required (driver and dsn)")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	return nil
}
