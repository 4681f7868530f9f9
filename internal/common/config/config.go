// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Service    ServiceConfig    `mapstructure:"service"`
	LiveStream LiveStreamConfig `mapstructure:"live_stream"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Session    SessionConfig    `mapstructure:"session"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServiceConfig points at the remote Parking Service.
type ServiceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// LiveStreamConfig holds the camera feed socket address.
type LiveStreamConfig struct {
	URL              string `mapstructure:"url"`
	HandshakeTimeout int    `mapstructure:"handshake_timeout"` // milliseconds
}

// CacheConfig configures the optional Redis read cache for parking lot data.
// An empty address disables caching.
type CacheConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
	TTL   int         `mapstructure:"ttl"` // seconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis address was configured.
func (c CacheConfig) Enabled() bool {
	return c.Redis.Address != ""
}

// SessionConfig tunes the parking session screen.
type SessionConfig struct {
	TickInterval int `mapstructure:"tick_interval"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Address returns the listen address for the metrics endpoint.
func (m MetricsConfig) Address() string {
	return fmt.Sprintf(":%d", m.Port)
}
