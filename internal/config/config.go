package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Database configuration
	Database DatabaseConfig `yaml:"database"`

	// Storage backend selection and schema management
	Storage StorageConfig `yaml:"storage"`

	// Authentication settings
	Auth AuthConfig `yaml:"auth"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Name         string        `yaml:"name"`
	SSLMode      string        `yaml:"sslmode"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	MaxLifetime  time.Duration `yaml:"max_lifetime"`
}

// StorageConfig selects the repository backend
type StorageConfig struct {
	Driver         string `yaml:"driver"` // "postgres" or "memory"
	MigrationsPath string `yaml:"migrations_path"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
}

// AuthConfig holds credential settings
type AuthConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`

	// Administrator created at startup when the user store starts empty
	// (in-memory storage). Both or neither must be set.
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "pretty"
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			Name:         "blog",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			MaxLifetime:  5 * time.Minute,
		},
		Storage: StorageConfig{
			Driver:         DriverPostgres,
			MigrationsPath: "./migrations",
			AutoMigrate:    true,
		},
		Auth: AuthConfig{
			BcryptCost: 12,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if set), then environment variables
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides file and default values with environment variables
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getDurationEnv("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxLifetime = getDurationEnv("DB_MAX_LIFETIME", c.Database.MaxLifetime)

	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.MigrationsPath = getEnv("MIGRATIONS_PATH", c.Storage.MigrationsPath)
	c.Storage.AutoMigrate = getBoolEnv("AUTO_MIGRATE", c.Storage.AutoMigrate)

	c.Auth.BcryptCost = getIntEnv("BCRYPT_COST", c.Auth.BcryptCost)
	c.Auth.AdminUsername = getEnv("AUTH_ADMIN_USERNAME", c.Auth.AdminUsername)
	c.Auth.AdminPassword = getEnv("AUTH_ADMIN_PASSWORD", c.Auth.AdminPassword)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Storage.Driver)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if (c.Auth.AdminUsername == "") != (c.Auth.AdminPassword == "") {
		return fmt.Errorf("AUTH_ADMIN_USERNAME and AUTH_ADMIN_PASSWORD must be set together")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
