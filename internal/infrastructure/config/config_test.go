package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bobashop-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Iiko.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Iiko.TokenSafetyMargin)
	assert.Equal(t, 3, cfg.Iiko.SyncWindowSize)
	assert.Equal(t, time.Minute, cfg.Sync.OrderSyncInterval)
	assert.Equal(t, time.Hour, cfg.Sync.MenuSyncInterval)
	assert.Equal(t, 10, cfg.Sync.BatchSize)
	assert.Equal(t, 3, cfg.Sync.MaxRetries)
	assert.True(t, cfg.Sync.Enabled, "sync runs out of the box")
	assert.True(t, cfg.Sync.RunOnStart, "jobs fire once immediately on start")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BOBA_DATABASE_HOST", "db.internal")
	t.Setenv("BOBA_SYNC_ORDER_SYNC_INTERVAL", "30s")
	t.Setenv("BOBA_SYNC_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Second, cfg.Sync.OrderSyncInterval)
	assert.False(t, cfg.Sync.Enabled, "deployments can still opt out")
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 50
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production requires db password", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("production requires admin token", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "admin.token")
	})

	t.Run("production rejects wildcard CORS", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Admin.Token = strings.Repeat("a", 32)
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("valid production config passes", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Admin.Token = strings.Repeat("a", 32)
		assert.NoError(t, cfg.validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "bobashop",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "bobashop")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss/word", "password must be URL-escaped")
}
