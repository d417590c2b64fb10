package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Service ServiceConfig `toml:"service"`
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
	Nodes   NodesConfig   `toml:"nodes"`
}

type ServiceConfig struct {
	Name              string `toml:"name"`
	RetentionInterval string `toml:"retention_interval"`
}

type ServerConfig struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	ReadTimeout string `toml:"read_timeout"`
}

type StorageConfig struct {
	Type      string `toml:"type"`
	Path      string `toml:"path"`
	Retention string `toml:"retention"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type MetricsConfig struct {
	Enabled *bool  `toml:"enabled"`
	Path    string `toml:"path"`
}

type NodesConfig struct {
	Deprecated *bool `toml:"deprecated"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when every field is left empty.
func Default() *Config {
	config := &Config{}
	if err := validateConfig(config); err != nil {
		panic(err)
	}
	return config
}

func validateConfig(config *Config) error {
	if config.Service.Name == "" {
		config.Service.Name = "listfilter"
	}

	if config.Service.RetentionInterval == "" {
		config.Service.RetentionInterval = "1h"
	}

	if d, err := time.ParseDuration(config.Service.RetentionInterval); err != nil {
		return fmt.Errorf("invalid retention interval: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("retention interval must be positive")
	}

	if config.Server.Port == "" {
		config.Server.Port = "8189"
	}

	if config.Server.ReadTimeout == "" {
		config.Server.ReadTimeout = "10s"
	}

	if _, err := time.ParseDuration(config.Server.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read timeout: %w", err)
	}

	if config.Storage.Type == "" {
		config.Storage.Type = "sqlite"
	}

	if config.Storage.Path == "" {
		config.Storage.Path = "./listfilter.db"
	}

	if config.Storage.Retention == "" {
		config.Storage.Retention = "720h"
	}

	if _, err := time.ParseDuration(config.Storage.Retention); err != nil {
		return fmt.Errorf("invalid storage retention: %w", err)
	}

	config.Logging.Level = strings.ToLower(config.Logging.Level)
	switch config.Logging.Level {
	case "":
		config.Logging.Level = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", config.Logging.Level)
	}

	config.Logging.Format = strings.ToLower(config.Logging.Format)
	switch config.Logging.Format {
	case "":
		config.Logging.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", config.Logging.Format)
	}

	if config.Metrics.Enabled == nil {
		enabled := true
		config.Metrics.Enabled = &enabled
	}

	if config.Metrics.Path == "" {
		config.Metrics.Path = "/metrics"
	}

	if !strings.HasPrefix(config.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with /")
	}

	if config.Nodes.Deprecated == nil {
		deprecated := true
		config.Nodes.Deprecated = &deprecated
	}

	return nil
}

func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

func (c *StorageConfig) RetentionDuration() time.Duration {
	return mustDuration(c.Retention)
}

func (c *ServiceConfig) RetentionIntervalDuration() time.Duration {
	return mustDuration(c.RetentionInterval)
}

func (c *MetricsConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

func (c *NodesConfig) DeprecatedEnabled() bool {
	return c.Deprecated == nil || *c.Deprecated
}

// mustDuration is only called on values already checked by validateConfig.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
