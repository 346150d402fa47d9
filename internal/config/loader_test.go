package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("LoadDefaults", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("XDG_DATA_HOME", t.TempDir())

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		assert.Equal(t, "https://api.taskdeck.com/v1", cfg.Upstream.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)

		assert.Equal(t, 300, cfg.RateLimit.AppCapacity)
		assert.Equal(t, 10*time.Second, cfg.RateLimit.AppWindow)
		assert.Equal(t, 100, cfg.RateLimit.UserCapacity)
		assert.Equal(t, 10*time.Second, cfg.RateLimit.UserWindow)
		assert.Equal(t, 5, cfg.RateLimit.MaxAttempts)
		assert.Equal(t, 500*time.Millisecond, cfg.RateLimit.BaseDelay)
		assert.Equal(t, 30*time.Second, cfg.RateLimit.MaxDelay)

		assert.Equal(t, "libsql", cfg.Store.Driver)
		assert.NotEmpty(t, cfg.Store.Path)

		assert.Equal(t, 5*time.Minute, cfg.Cache.TaskTTL)
		assert.Equal(t, 30*time.Minute, cfg.Cache.ProjectTTL)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "SIMPLE", cfg.Logging.Profile)

		assert.True(t, cfg.Health.Enabled)
		assert.False(t, cfg.Debug.Enabled)
	})

	t.Run("RuntimeOverrides", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		overrides := map[string]any{
			"server": map[string]any{
				"port": 9000,
				"host": "0.0.0.0",
			},
			"logging": map[string]any{
				"level": "debug",
			},
		}

		cfg, err := Load(ctx, overrides)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)

		assert.Equal(t, "SIMPLE", cfg.Logging.Profile)
		assert.Equal(t, 300, cfg.RateLimit.AppCapacity)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("DECKHAND_PORT", "3000")
		t.Setenv("DECKHAND_LOG_LEVEL", "warn")
		t.Setenv("DECKHAND_USER_TOKEN", "secret")
		t.Setenv("DECKHAND_RATE_USER_CAPACITY", "50")

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "secret", cfg.Upstream.UserToken)
		assert.Equal(t, 50, cfg.RateLimit.UserCapacity)
	})

	t.Run("ConfigPrecedence", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("DECKHAND_PORT", "4000")

		overrides := map[string]any{
			"server": map[string]any{
				"port": 5000,
			},
		}

		cfg, err := Load(ctx, overrides)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, 5000, cfg.Server.Port)
	})

	t.Run("UserConfigFile", func(t *testing.T) {
		configHome := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", configHome)

		configDir := filepath.Join(configHome, "deckhand")
		require.NoError(t, os.MkdirAll(configDir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(configDir, "config.yaml"),
			[]byte("server:\n  port: 7070\nrate_limit:\n  max_attempts: 3\n"),
			0o644,
		))

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, 3, cfg.RateLimit.MaxAttempts)
		assert.Equal(t, "localhost", cfg.Server.Host)
	})
}

func TestGetConfig(t *testing.T) {
	ctx := context.Background()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	retrieved := GetConfig()
	assert.NotNil(t, retrieved)
	assert.Equal(t, cfg.Server.Port, retrieved.Server.Port)
	assert.Equal(t, cfg.Logging.Level, retrieved.Logging.Level)
}

func TestEnvSpecs(t *testing.T) {
	specs := getEnvSpecs()
	assert.NotEmpty(t, specs)

	envVarNames := make(map[string]bool)
	for _, spec := range specs {
		envVarNames[spec.Name] = true
	}

	assert.True(t, envVarNames["DECKHAND_LOG_LEVEL"])
	assert.True(t, envVarNames["DECKHAND_PORT"])
	assert.True(t, envVarNames["DECKHAND_USER_TOKEN"])
	assert.True(t, envVarNames["DECKHAND_RATE_APP_CAPACITY"])
	assert.True(t, envVarNames["DECKHAND_DB_PATH"])
}

func TestDurationParsing(t *testing.T) {
	ctx := context.Background()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DECKHAND_READ_TIMEOUT", "45s")
	t.Setenv("DECKHAND_RATE_APP_WINDOW", "1m")

	cfg, err := Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Minute, cfg.RateLimit.AppWindow)
}
