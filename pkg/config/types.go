// Package config holds the engram configuration: defaults, config.toml
// discovery through the .engram/ directory, and ENGRAM_-prefixed environment
// variables, all layered through viper.
package config

// Config represents the full engram configuration. The TOML layout uses
// sections for logical grouping.
type Config struct {
	Debug     bool            `mapstructure:"debug" toml:"debug,omitempty"`
	Server    ServerConfig    `mapstructure:"server" toml:"server"`
	Database  DatabaseConfig  `mapstructure:"database" toml:"database"`
	Embedding EmbeddingConfig `mapstructure:"embedding" toml:"embedding"`
	Auth      AuthConfig      `mapstructure:"auth" toml:"auth"`
	Events    EventsConfig    `mapstructure:"events" toml:"events"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen string `mapstructure:"listen" toml:"listen,omitempty"`
}

// DatabaseConfig holds record store settings. Driver selects the backend;
// URL is the postgres connection string and is ignored by the memory driver.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" toml:"driver,omitempty"`
	URL    string `mapstructure:"url" toml:"url,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider string `mapstructure:"provider" toml:"provider,omitempty"`
	Target   string `mapstructure:"target" toml:"target,omitempty"`
	Model    string `mapstructure:"model" toml:"model,omitempty"`
	APIKey   string `mapstructure:"api_key" toml:"api_key,omitempty"`
}

// AuthConfig holds identity resolver settings. The static provider maps
// Token onto UserID directly and exists for dev mode.
type AuthConfig struct {
	Provider string `mapstructure:"provider" toml:"provider,omitempty"`
	Target   string `mapstructure:"target" toml:"target,omitempty"`
	APIKey   string `mapstructure:"api_key" toml:"api_key,omitempty"`
	Token    string `mapstructure:"token" toml:"token,omitempty"`
	UserID   string `mapstructure:"user_id" toml:"user_id,omitempty"`
}

// EventsConfig holds mutation event streaming settings.
type EventsConfig struct {
	Enabled bool     `mapstructure:"enabled" toml:"enabled,omitempty"`
	Brokers []string `mapstructure:"brokers" toml:"brokers,omitempty"`
	Topic   string   `mapstructure:"topic" toml:"topic,omitempty"`
}
