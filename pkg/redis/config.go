package redis

import (
	"fmt"
	"time"
)

// Config holds Redis backend configuration
type Config struct {
	// Redis Connection
	Host     string `json:"host" yaml:"host" env:"HOST"`
	Port     int    `json:"port" yaml:"port" env:"PORT"`
	Username string `json:"username" yaml:"username" env:"USERNAME"`
	Password string `json:"password" yaml:"password" env:"PASSWORD"`
	Database int    `json:"database" yaml:"database" env:"DATABASE"`

	// DefaultTTL is applied to every stored entity. Zero keeps entries until removed.
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl" env:"DEFAULT_TTL"`

	// Connection Pool
	PoolSize     int           `json:"pool_size" yaml:"pool_size" env:"POOL_SIZE"`
	MinIdleConns int           `json:"min_idle_conns" yaml:"min_idle_conns" env:"MIN_IDLE_CONNS"`
	MaxConnAge   time.Duration `json:"max_conn_age" yaml:"max_conn_age" env:"MAX_CONN_AGE"`
	PoolTimeout  time.Duration `json:"pool_timeout" yaml:"pool_timeout" env:"POOL_TIMEOUT"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout" env:"IDLE_TIMEOUT"`

	// Performance
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout" env:"DIAL_TIMEOUT"`
	MaxRetries   int           `json:"max_retries" yaml:"max_retries" env:"MAX_RETRIES"`

	// Clustering (for Redis Cluster)
	Cluster ClusterConfig `json:"cluster" yaml:"cluster" envPrefix:"CLUSTER_"`

	// Cache Metrics
	EnableMetrics bool `json:"enable_metrics" yaml:"enable_metrics" env:"ENABLE_METRICS"`

	// Cache Logging
	Logging LoggingConfig `json:"logging" yaml:"logging" envPrefix:"LOG_"`
}

// ClusterConfig for Redis Cluster setup
type ClusterConfig struct {
	Enabled   bool     `json:"enabled" yaml:"enabled" env:"ENABLED"`
	Addresses []string `json:"addresses" yaml:"addresses" env:"ADDRESSES"`
	Username  string   `json:"username" yaml:"username" env:"USERNAME"`
	Password  string   `json:"password" yaml:"password" env:"PASSWORD"`
}

// LoggingConfig controls Redis backend logging behavior
type LoggingConfig struct {
	LogCacheHits   bool `json:"log_cache_hits" yaml:"log_cache_hits" env:"CACHE_HITS"`
	LogCacheMisses bool `json:"log_cache_misses" yaml:"log_cache_misses" env:"CACHE_MISSES"`
}

// DefaultConfig returns a Redis configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         6379,
		Database:     0,
		DefaultTTL:   0,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxConnAge:   time.Hour,
		PoolTimeout:  time.Second * 4,
		IdleTimeout:  time.Minute * 5,
		ReadTimeout:  time.Second * 3,
		WriteTimeout: time.Second * 3,
		DialTimeout:  time.Second * 5,
		MaxRetries:   3,
		Cluster: ClusterConfig{
			Enabled: false,
		},
		EnableMetrics: true,
		Logging: LoggingConfig{
			LogCacheHits:   false,
			LogCacheMisses: false,
		},
	}
}

// Validate checks if the Redis configuration is valid
func (c *Config) Validate() error {
	if c.DefaultTTL < 0 {
		return fmt.Errorf("default_ttl must not be negative")
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool_size must be at least 1")
	}
	if c.MinIdleConns < 0 {
		return fmt.Errorf("min_idle_conns must not be negative")
	}

	if c.IsClusterMode() {
		return nil
	}
	if c.Cluster.Enabled {
		return fmt.Errorf("cluster mode requires at least one address")
	}

	if c.Host == "" {
		return fmt.Errorf("redis host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("redis port must be between 1 and 65535")
	}

	return nil
}

// GetAddr returns the Redis connection address
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsClusterMode returns true if Redis cluster is enabled
func (c *Config) IsClusterMode() bool {
	return c.Cluster.Enabled && len(c.Cluster.Addresses) > 0
}
