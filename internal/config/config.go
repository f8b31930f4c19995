// Package config loads the observerd daemon configuration from an optional
// YAML file, with environment variables taking precedence over file values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "obskit/pkg/config"
	"obskit/pkg/store"
)

// Config is the full observerd configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Sampling SamplingConfig `yaml:"sampling"`
}

// ServiceConfig identifies the service and controls logging.
type ServiceConfig struct {
	// Name is stamped on traces created by the monitor.
	// Default: "observerd". Env: OBSERVERD_SERVICE_NAME
	Name string `yaml:"name"`

	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info". Env: OBSERVERD_LOG_LEVEL
	LogLevel string `yaml:"log_level"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	// ListenAddr for /metrics, /export, and /healthz.
	// Default: ":9090". Env: OBSERVERD_LISTEN_ADDR
	ListenAddr string `yaml:"listen_addr"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s. Env: OBSERVERD_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig bounds the in-memory telemetry store.
type StoreConfig struct {
	// Capacity per record kind. Default: 1000. Env: OBSERVERD_STORE_CAPACITY
	Capacity int `yaml:"capacity"`

	// LowWater is the size each kind is reduced to when eviction runs.
	// Default: half of Capacity. Env: OBSERVERD_STORE_LOW_WATER
	LowWater int `yaml:"low_water"`
}

// SamplingConfig controls the periodic runtime sampler.
type SamplingConfig struct {
	// Enabled toggles the sampler. Default: true.
	// Env: OBSERVERD_SAMPLING_ENABLED
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression, including the "@every <duration>"
	// form. Default: "@every 15s". Env: OBSERVERD_SAMPLING_SCHEDULE
	Schedule string `yaml:"schedule"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Service: ServiceConfig{
			Name:     "observerd",
			LogLevel: "info",
		},
		Server: ServerConfig{
			ListenAddr:      ":9090",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Capacity: store.DefaultCapacity,
			LowWater: store.DefaultLowWater,
		},
		Sampling: SamplingConfig{
			Enabled:  true,
			Schedule: "@every 15s",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty; a missing file is an error), then environment
// overrides. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Service.Name = pkgconfig.GetEnvString("OBSERVERD_SERVICE_NAME", c.Service.Name)
	c.Service.LogLevel = pkgconfig.GetEnvString("OBSERVERD_LOG_LEVEL", c.Service.LogLevel)
	c.Server.ListenAddr = pkgconfig.GetEnvString("OBSERVERD_LISTEN_ADDR", c.Server.ListenAddr)
	c.Server.ShutdownTimeout = pkgconfig.GetEnvDuration("OBSERVERD_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Store.Capacity = pkgconfig.GetEnvInt("OBSERVERD_STORE_CAPACITY", c.Store.Capacity)
	c.Store.LowWater = pkgconfig.GetEnvInt("OBSERVERD_STORE_LOW_WATER", c.Store.LowWater)
	c.Sampling.Enabled = pkgconfig.GetEnvBool("OBSERVERD_SAMPLING_ENABLED", c.Sampling.Enabled)
	c.Sampling.Schedule = pkgconfig.GetEnvString("OBSERVERD_SAMPLING_SCHEDULE", c.Sampling.Schedule)
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return errors.New("service name cannot be empty")
	}
	if _, err := ParseLogLevel(c.Service.LogLevel); err != nil {
		return err
	}
	if c.Server.ListenAddr == "" {
		return errors.New("listen address cannot be empty")
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown timeout: %w", err)
	}
	storeCfg := c.StoreConfig()
	if err := storeCfg.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if c.Sampling.Enabled && c.Sampling.Schedule == "" {
		return errors.New("sampling schedule cannot be empty when sampling is enabled")
	}
	return nil
}

// StoreConfig converts the store section into a store.Config.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Capacity: c.Store.Capacity,
		LowWater: c.Store.LowWater,
	}
}

// ParseLogLevel maps a config string to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}
