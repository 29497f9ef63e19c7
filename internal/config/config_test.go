package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SERVER_IDLE_TIMEOUT", "")
	t.Setenv("AUTH_ADMIN_USERNAME", "")
	t.Setenv("AUTH_ADMIN_PASSWORD", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.AutoMigrate)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Empty(t, cfg.Auth.AdminUsername)
}

func TestLoad_BootstrapAdminAndIdleTimeout(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("AUTH_ADMIN_USERNAME", "root")
	t.Setenv("AUTH_ADMIN_PASSWORD", "changeme")
	t.Setenv("SERVER_IDLE_TIMEOUT", "2m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.Auth.AdminUsername)
	assert.Equal(t, "changeme", cfg.Auth.AdminPassword)
	assert.Equal(t, 2*time.Minute, cfg.Server.IdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "idle timeout is independent of read timeout")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: "9000"
  read_timeout: 5s
storage:
  driver: memory
log:
  level: debug
`), 0o644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "warn", cfg.Log.Level, "environment overrides the file")
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout, "unset keys keep their defaults")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"memory without database", func(c *Config) { c.Storage.Driver = DriverMemory; c.Database.Host = "" }, false},
		{"postgres without host", func(c *Config) { c.Database.Host = "" }, true},
		{"postgres without name", func(c *Config) { c.Database.Name = "" }, true},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }, true},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 1 }, true},
		{"admin with password", func(c *Config) { c.Auth.AdminUsername = "root"; c.Auth.AdminPassword = "pw" }, false},
		{"admin without password", func(c *Config) { c.Auth.AdminUsername = "root" }, true},
		{"password without admin", func(c *Config) { c.Auth.AdminPassword = "pw" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	dsn := Default().Database.GetDSN()
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=blog sslmode=disable", dsn)
}
