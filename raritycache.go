// Package raritycache is a pluggable cache for chat platform state: guilds,
// channels, members, roles, presences, voice states, messages and users.
//
// Three storage backends are provided. The in-memory backend supports every
// operation. The Redis backend stores values remotely and supports point
// operations only. The SQL backend keeps one GORM table and answers guild
// aggregates from an index.
package raritycache

import (
	"context"
	"fmt"
	"io"

	"github.com/ammar0144/raritycache/pkg/cache"
	"github.com/ammar0144/raritycache/pkg/config"
	"github.com/ammar0144/raritycache/pkg/db"
	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/memory"
	"github.com/ammar0144/raritycache/pkg/redis"
	"github.com/ammar0144/raritycache/pkg/repository"
	"go.uber.org/zap"
)

// Cache joins the repositories of one backend
type Cache = cache.Cache

// Config selects and configures a backend
type Config = config.Config

// Option configures a backend
type Option = repository.Option

// Types selects which entity kinds accept writes
type Types = entity.Types

// ErrUnsupported is matched by every error reporting a missing backend capability
var ErrUnsupported = repository.ErrUnsupported

// WithEntityTypes restricts writes to the given kinds
func WithEntityTypes(types Types) Option {
	return repository.WithEntityTypes(types)
}

// WithLogger sets the logger used by the backend and the cache
func WithLogger(log *zap.Logger) Option {
	return repository.WithLogger(log)
}

// NewInMemory creates a cache over a fresh in-memory backend
func NewInMemory(opts ...Option) *Cache {
	return cache.New(memory.New(opts...), opts...)
}

// NewRedis creates a cache over an established Redis manager
func NewRedis(manager *redis.Manager, opts ...Option) *Cache {
	return cache.New(redis.NewBackend(manager, opts...), opts...)
}

// NewSQL creates a cache over an established database manager, migrating
// the cache table first.
func NewSQL(ctx context.Context, manager *db.Manager, opts ...Option) (*Cache, error) {
	b, err := db.NewBackend(ctx, manager, opts...)
	if err != nil {
		return nil, err
	}
	return cache.New(b, opts...), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Open builds the backend selected by cfg. The returned closer releases the
// backend's connections; it is a no-op for the in-memory backend.
func Open(ctx context.Context, cfg *Config, log *zap.Logger) (*Cache, io.Closer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	opts := []Option{WithEntityTypes(cfg.EntityTypes), WithLogger(log)}

	switch cfg.Backend {
	case config.BackendRedis:
		manager, err := redis.NewManager(&cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if err := manager.Ping(ctx); err != nil {
			_ = manager.Close()
			return nil, nil, err
		}
		return NewRedis(manager, opts...), manager, nil

	case config.BackendSQL:
		manager, err := db.NewManager(&cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		c, err := NewSQL(ctx, manager, opts...)
		if err != nil {
			_ = manager.Close()
			return nil, nil, err
		}
		return c, manager, nil

	default:
		return NewInMemory(opts...), closerFunc(func() error { return nil }), nil
	}
}
