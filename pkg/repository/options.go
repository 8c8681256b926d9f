package repository

import (
	"github.com/ammar0144/raritycache/pkg/entity"
	"go.uber.org/zap"
)

// Options holds settings shared by every backend. They are fixed at backend
// construction and never change afterwards.
type Options struct {
	Types  entity.Types
	Logger *zap.Logger
}

// Option configures backend Options
type Option func(*Options)

// WithEntityTypes selects which entity kinds accept writes
func WithEntityTypes(types entity.Types) Option {
	return func(o *Options) {
		o.Types = types
	}
}

// WithLogger sets the backend logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// NewOptions applies opts over the defaults: every kind enabled, no-op logger
func NewOptions(opts ...Option) Options {
	o := Options{
		Types:  entity.AllTypes,
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Writable reports whether writes for kind are retained, logging the drop otherwise
func (o Options) Writable(kind entity.Kind, op string) bool {
	if o.Types.Contains(kind) {
		return true
	}
	o.Logger.Debug("dropping write for disabled entity type",
		zap.Stringer("kind", kind),
		zap.String("operation", op),
	)
	return false
}
