package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Manager manages the pooled Redis connection and raw key operations.
// A Manager is safe for concurrent use; every Backend built on it shares its pool.
type Manager struct {
	config  *Config
	client  redis.UniversalClient
	metrics *Metrics
}

// NewManager creates a new Redis manager. No connection is made until the first operation or Ping.
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	manager := &Manager{
		config:  config,
		metrics: NewMetrics(),
	}
	manager.initializeClient()

	return manager, nil
}

// initializeClient sets up the Redis client based on configuration
func (m *Manager) initializeClient() {
	if m.config.IsClusterMode() {
		m.client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           m.config.Cluster.Addresses,
			Username:        m.config.Cluster.Username,
			Password:        m.config.Cluster.Password,
			PoolSize:        m.config.PoolSize,
			MinIdleConns:    m.config.MinIdleConns,
			ConnMaxLifetime: m.config.MaxConnAge,
			PoolTimeout:     m.config.PoolTimeout,
			ConnMaxIdleTime: m.config.IdleTimeout,
			ReadTimeout:     m.config.ReadTimeout,
			WriteTimeout:    m.config.WriteTimeout,
			DialTimeout:     m.config.DialTimeout,
			MaxRetries:      m.config.MaxRetries,
		})
		return
	}

	m.client = redis.NewClient(&redis.Options{
		Addr:            m.config.GetAddr(),
		Username:        m.config.Username,
		Password:        m.config.Password,
		DB:              m.config.Database,
		PoolSize:        m.config.PoolSize,
		MinIdleConns:    m.config.MinIdleConns,
		ConnMaxLifetime: m.config.MaxConnAge,
		PoolTimeout:     m.config.PoolTimeout,
		ConnMaxIdleTime: m.config.IdleTimeout,
		ReadTimeout:     m.config.ReadTimeout,
		WriteTimeout:    m.config.WriteTimeout,
		DialTimeout:     m.config.DialTimeout,
		MaxRetries:      m.config.MaxRetries,
	})
}

// Config returns the manager's configuration
func (m *Manager) Config() *Config {
	return m.config
}

// Close closes the Redis connection pool
func (m *Manager) Close() error {
	if m != nil && m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Ping tests the Redis connection
// Returns ErrClientNotInitialized if client is not initialized
// Returns ErrConnectionFailed if ping fails
func (m *Manager) Ping(ctx context.Context) error {
	if m == nil || m.client == nil {
		return ErrClientNotInitialized
	}

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return nil
}

// checkClient validates that the manager and client are initialized and the key usable
func (m *Manager) checkClient(key string) error {
	if m == nil || m.client == nil {
		return ErrClientNotInitialized
	}
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}

// Get retrieves a raw value. A missing key returns ErrKeyNotFound.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, error) {
	if err := m.checkClient(key); err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := m.client.Get(ctx, key).Bytes()
	m.metrics.RecordGet(time.Since(start))

	if errors.Is(err, redis.Nil) {
		m.metrics.RecordCacheMiss()
		return nil, ErrKeyNotFound
	}
	if err != nil {
		m.metrics.RecordCacheError()
		return nil, wrapError("get", err)
	}

	m.metrics.RecordCacheHit()
	return data, nil
}

// Set stores a raw value with the configured DefaultTTL
func (m *Manager) Set(ctx context.Context, key string, value []byte) error {
	if err := m.checkClient(key); err != nil {
		return err
	}
	return m.SetWithTTL(ctx, key, value, m.config.DefaultTTL)
}

// SetWithTTL stores a raw value with a custom TTL; zero means no expiry
func (m *Manager) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := m.checkClient(key); err != nil {
		return err
	}

	start := time.Now()
	err := m.client.Set(ctx, key, value, ttl).Err()
	m.metrics.RecordSet(time.Since(start))

	if err != nil {
		m.metrics.RecordCacheError()
		return wrapError("set", err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if err := m.checkClient(key); err != nil {
		return err
	}

	start := time.Now()
	err := m.client.Del(ctx, key).Err()
	m.metrics.RecordDelete(time.Since(start))

	if err != nil {
		m.metrics.RecordCacheError()
		return wrapError("del", err)
	}
	return nil
}

// Exists checks if a key exists
func (m *Manager) Exists(ctx context.Context, key string) (bool, error) {
	if err := m.checkClient(key); err != nil {
		return false, err
	}

	n, err := m.client.Exists(ctx, key).Result()
	if err != nil {
		return false, wrapError("exists", err)
	}
	return n > 0, nil
}

// RecordDecodeFailure counts a stored value that could not be decoded
func (m *Manager) RecordDecodeFailure() {
	if m.config.EnableMetrics {
		m.metrics.RecordDecodeFailure()
	}
}

// GetMetrics returns current performance metrics
func (m *Manager) GetMetrics() MetricsSnapshot {
	if m.metrics == nil || !m.config.EnableMetrics {
		return MetricsSnapshot{}
	}
	return m.metrics.GetSnapshot()
}

// ResetMetrics resets all performance metrics counters
func (m *Manager) ResetMetrics() {
	if m.metrics != nil {
		m.metrics.Reset()
	}
}
