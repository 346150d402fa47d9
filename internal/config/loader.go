// Package config provides centralized configuration management for Deckhand.
// Values are layered: built-in defaults, then the user config file
// (discovered via XDG paths), then DECKHAND_* environment variables, then
// runtime overrides.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

const (
	appName   = "deckhand"
	envPrefix = "DECKHAND_"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// EnvVarSpec defines environment variable mappings for config fields
// following the pattern: {PREFIX}{NAME} maps to config path
type EnvVarSpec = gfconfig.EnvVarSpec

// Environment variable types
const (
	EnvString = gfconfig.EnvString
	EnvInt    = gfconfig.EnvInt
	EnvBool   = gfconfig.EnvBool
)

// Load loads configuration using the layered pattern. It is safe to call
// multiple times (e.g., for config reload).
func Load(ctx context.Context, runtimeOverrides ...map[string]any) (*Config, error) {
	_ = ctx

	merged := defaults()

	fileValues, err := loadUserConfigFile()
	if err != nil {
		return nil, err
	}
	mergeMaps(merged, fileValues)

	envOverrides, err := gfconfig.LoadEnvOverrides(getEnvSpecs())
	if err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}
	mergeMaps(merged, envOverrides)

	for _, overrides := range runtimeOverrides {
		mergeMaps(merged, overrides)
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToFloat64HookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(merged); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Store.URL) == "" && strings.TrimSpace(cfg.Store.Path) == "" {
		cfg.Store.Path = DefaultStorePath()
	}

	setConfig(cfg)

	return cfg, nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

func defaults() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"host":             "localhost",
			"port":             8080,
			"read_timeout":     "30s",
			"write_timeout":    "30s",
			"idle_timeout":     "120s",
			"shutdown_timeout": "10s",
		},
		"upstream": map[string]any{
			"base_url": "https://api.taskdeck.com/v1",
			"timeout":  "30s",
		},
		"rate_limit": map[string]any{
			"app_capacity":  300,
			"app_window":    "10s",
			"user_capacity": 100,
			"user_window":   "10s",
			"max_attempts":  5,
			"base_delay":    "500ms",
			"max_delay":     "30s",
		},
		"store": map[string]any{
			"driver": "libsql",
		},
		"cache": map[string]any{
			"task_ttl":    "5m",
			"project_ttl": "30m",
		},
		"logging": map[string]any{
			"level":   "info",
			"profile": "SIMPLE",
		},
		"metrics": map[string]any{
			"enabled": true,
			"port":    9090,
		},
		"health": map[string]any{
			"enabled": true,
		},
		"debug": map[string]any{
			"enabled":       false,
			"pprof_enabled": false,
		},
	}
}

// loadUserConfigFile reads the first user config file found on the XDG
// search path. Missing files are not an error.
func loadUserConfigFile() (map[string]any, error) {
	for _, path := range gfconfig.GetAppConfigPaths(appName) {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from XDG discovery
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}

		values := map[string]any{}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		return values, nil
	}
	return nil, nil
}

// mergeMaps overlays src onto dst, descending into nested maps.
func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		if srcMap, ok := value.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				mergeMaps(dstMap, srcMap)
				continue
			}
		}
		dst[key] = value
	}
}

// getEnvSpecs returns environment variable specifications for config mapping
// Maps {PREFIX}{NAME} environment variables to config paths
func getEnvSpecs() []EnvVarSpec {
	prefix := envPrefix

	return []EnvVarSpec{
		// Server config
		{Name: prefix + "HOST", Path: []string{"server", "host"}, Type: EnvString},
		{Name: prefix + "PORT", Path: []string{"server", "port"}, Type: EnvInt},
		// Duration fields are parsed as strings and converted by mapstructure decode hook
		{Name: prefix + "READ_TIMEOUT", Path: []string{"server", "read_timeout"}, Type: EnvString},
		{Name: prefix + "WRITE_TIMEOUT", Path: []string{"server", "write_timeout"}, Type: EnvString},
		{Name: prefix + "IDLE_TIMEOUT", Path: []string{"server", "idle_timeout"}, Type: EnvString},
		{Name: prefix + "SHUTDOWN_TIMEOUT", Path: []string{"server", "shutdown_timeout"}, Type: EnvString},

		// Upstream config
		{Name: prefix + "BASE_URL", Path: []string{"upstream", "base_url"}, Type: EnvString},
		{Name: prefix + "APP_TOKEN", Path: []string{"upstream", "app_token"}, Type: EnvString},
		{Name: prefix + "USER_TOKEN", Path: []string{"upstream", "user_token"}, Type: EnvString},
		{Name: prefix + "UPSTREAM_TIMEOUT", Path: []string{"upstream", "timeout"}, Type: EnvString},

		// Rate limit config
		{Name: prefix + "RATE_APP_CAPACITY", Path: []string{"rate_limit", "app_capacity"}, Type: EnvInt},
		{Name: prefix + "RATE_APP_WINDOW", Path: []string{"rate_limit", "app_window"}, Type: EnvString},
		{Name: prefix + "RATE_USER_CAPACITY", Path: []string{"rate_limit", "user_capacity"}, Type: EnvInt},
		{Name: prefix + "RATE_USER_WINDOW", Path: []string{"rate_limit", "user_window"}, Type: EnvString},
		{Name: prefix + "RATE_MAX_ATTEMPTS", Path: []string{"rate_limit", "max_attempts"}, Type: EnvInt},
		{Name: prefix + "RATE_BASE_DELAY", Path: []string{"rate_limit", "base_delay"}, Type: EnvString},
		{Name: prefix + "RATE_MAX_DELAY", Path: []string{"rate_limit", "max_delay"}, Type: EnvString},

		// Logging config
		{Name: prefix + "LOG_LEVEL", Path: []string{"logging", "level"}, Type: EnvString},
		{Name: prefix + "LOG_PROFILE", Path: []string{"logging", "profile"}, Type: EnvString},

		// Store config
		{Name: prefix + "DB_DRIVER", Path: []string{"store", "driver"}, Type: EnvString},
		{Name: prefix + "DB_PATH", Path: []string{"store", "path"}, Type: EnvString},
		{Name: prefix + "DB_URL", Path: []string{"store", "url"}, Type: EnvString},
		{Name: prefix + "DB_AUTH_TOKEN", Path: []string{"store", "auth_token"}, Type: EnvString},

		// Cache config
		{Name: prefix + "CACHE_TASK_TTL", Path: []string{"cache", "task_ttl"}, Type: EnvString},
		{Name: prefix + "CACHE_PROJECT_TTL", Path: []string{"cache", "project_ttl"}, Type: EnvString},

		// Metrics config
		{Name: prefix + "METRICS_ENABLED", Path: []string{"metrics", "enabled"}, Type: EnvBool},
		{Name: prefix + "METRICS_PORT", Path: []string{"metrics", "port"}, Type: EnvInt},

		// Health config
		{Name: prefix + "HEALTH_ENABLED", Path: []string{"health", "enabled"}, Type: EnvBool},

		// Debug config
		{Name: prefix + "DEBUG_ENABLED", Path: []string{"debug", "enabled"}, Type: EnvBool},
		{Name: prefix + "DEBUG_PPROF_ENABLED", Path: []string{"debug", "pprof_enabled"}, Type: EnvBool},
	}
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := gfconfig.GetAppConfigDir(appName)
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}

// DefaultDataDir returns the XDG-compliant data directory for the app.
func DefaultDataDir() string {
	return gfconfig.GetAppDataDir(appName)
}

// DefaultStorePath returns the XDG-compliant path to the database file.
func DefaultStorePath() string {
	dataDir := gfconfig.GetAppDataDir(appName)
	if strings.TrimSpace(dataDir) == "" {
		return "./" + appName + ".db"
	}
	return filepath.Join(dataDir, appName+".db")
}
