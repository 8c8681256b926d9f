// Package config loads the settings needed to open a cache: which backend to
// use, which entity kinds to track, connection settings and logging.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ammar0144/raritycache/pkg/config/hook"
	"github.com/ammar0144/raritycache/pkg/db"
	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/redis"
	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Backend names accepted by Config.Backend
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
)

// EnvPrefix is prepended to every environment variable read by FromEnv
const EnvPrefix = "RARITY_"

type Config struct {
	Backend     string       `yaml:"backend" env:"BACKEND"`
	EntityTypes entity.Types `yaml:"entity_types" env:"ENTITY_TYPES"`

	Redis    redis.Config `yaml:"redis" envPrefix:"REDIS_"`
	Database db.Config    `yaml:"database" envPrefix:"DB_"`

	Logging struct {
		Level       zapcore.Level `yaml:"level" env:"LEVEL"`
		Development bool          `yaml:"development" env:"DEVELOPMENT"`
	} `yaml:"logging" envPrefix:"LOG_"`
}

// Default returns the in-memory configuration tracking every entity kind
func Default() *Config {
	c := &Config{
		Backend:     BackendMemory,
		EntityTypes: entity.AllTypes,
		Redis:       *redis.DefaultConfig(),
		Database:    *db.DefaultConfig(),
	}
	c.Logging.Level = zapcore.InfoLevel
	return c
}

// Validate checks the backend name and the settings of the selected backend only
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendRedis:
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	case BackendSQL:
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		return nil
	case "":
		return errors.New("backend is required")
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendMemory, BackendRedis, BackendSQL)
	}
}

// FromEnv reads RARITY_* variables over the defaults
func FromEnv() (*Config, error) {
	c := Default()
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromFile reads a YAML (or any viper supported) file over the defaults.
// Keys can be overridden with RARITY_* variables, nested keys joined by
// underscores, e.g. RARITY_REDIS_HOST.
func FromFile(path string) (*Config, error) {
	v := viper.New()
	configureEnv(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	c := Default()
	if err := v.Unmarshal(c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		hook.Level(),
		hook.EntityTypes(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)), func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func configureEnv(v *viper.Viper) {
	v.AutomaticEnv()
	v.SetEnvPrefix(strings.TrimSuffix(EnvPrefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// NewLogger builds the zap logger described by the logging section
func (c *Config) NewLogger() (*zap.Logger, error) {
	lcf := zap.NewProductionConfig()
	if c.Logging.Development {
		lcf = zap.NewDevelopmentConfig()
		lcf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	lcf.Level.SetLevel(c.Logging.Level)
	lcf.DisableCaller = true
	return lcf.Build()
}
