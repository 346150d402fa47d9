package config

import "time"

// Config represents the complete application configuration.
// Values are layered: built-in defaults, then the user config file,
// then environment variables, then runtime overrides.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Store     StoreConfig     `mapstructure:"store"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Health    HealthConfig    `mapstructure:"health"`
	Debug     DebugConfig     `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UpstreamConfig contains Taskdeck API connection settings.
type UpstreamConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	AppToken  string        `mapstructure:"app_token"`
	UserToken string        `mapstructure:"user_token"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig contains client-side admission and retry settings.
// The app and user windows mirror the two Taskdeck credential buckets.
type RateLimitConfig struct {
	AppCapacity  int           `mapstructure:"app_capacity"`
	AppWindow    time.Duration `mapstructure:"app_window"`
	UserCapacity int           `mapstructure:"user_capacity"`
	UserWindow   time.Duration `mapstructure:"user_window"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	BaseDelay    time.Duration `mapstructure:"base_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
}

// StoreConfig contains database configuration for libsql/Turso
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// CacheConfig contains record cache TTL configuration.
type CacheConfig struct {
	TaskTTL    time.Duration `mapstructure:"task_ttl"`
	ProjectTTL time.Duration `mapstructure:"project_ttl"`
}

// LoggingConfig contains logging configuration.
// Profile selects console output (SIMPLE) or structured sinks with
// correlation IDs (STRUCTURED).
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus exporter configuration. The exporter
// listens on its own port; the main server proxies it at /metrics.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DebugConfig contains debug and profiling configuration
type DebugConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}
