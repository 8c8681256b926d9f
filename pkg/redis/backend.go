package redis

import (
	"context"
	"fmt"
	"iter"

	"github.com/ammar0144/raritycache/pkg/codec"
	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// Name is the backend name reported in errors and logs
const Name = "redis"

// Backend stores entities as msgpack values under "{tag}:{id}" keys.
// It cannot enumerate its keyspace, so List and every relational helper are
// unsupported. Copies share the Manager and its connection pool.
type Backend struct {
	manager *Manager
	opts    repository.Options
}

// NewBackend creates a backend over an existing manager
func NewBackend(manager *Manager, opts ...repository.Option) Backend {
	o := repository.NewOptions(opts...)
	o.Logger = o.Logger.With(zap.String("backend", Name))
	return Backend{manager: manager, opts: o}
}

// Clone returns another handle sharing the connection pool
func (b Backend) Clone() Backend {
	return b
}

func (b Backend) Name() string {
	return Name
}

func (b Backend) Capabilities() repository.Capabilities {
	return 0
}

// Manager returns the underlying connection manager
func (b Backend) Manager() *Manager {
	return b.manager
}

// Close releases the connection pool shared by every clone
func (b Backend) Close() error {
	return b.manager.Close()
}

func (b Backend) Attachments() repository.Repository[entity.Attachment, snowflake.ID] {
	return newRepository[entity.Attachment, snowflake.ID](b)
}

func (b Backend) CategoryChannels() repository.Repository[entity.CategoryChannel, snowflake.ID] {
	return newRepository[entity.CategoryChannel, snowflake.ID](b)
}

func (b Backend) Emojis() repository.Repository[entity.Emoji, snowflake.ID] {
	return newRepository[entity.Emoji, snowflake.ID](b)
}

func (b Backend) Groups() repository.Repository[entity.Group, snowflake.ID] {
	return newRepository[entity.Group, snowflake.ID](b)
}

func (b Backend) Guilds() repository.Repository[entity.Guild, snowflake.ID] {
	return newRepository[entity.Guild, snowflake.ID](b)
}

func (b Backend) Members() repository.Repository[entity.Member, entity.GuildUserID] {
	return newRepository[entity.Member, entity.GuildUserID](b)
}

func (b Backend) Messages() repository.Repository[entity.Message, snowflake.ID] {
	return newRepository[entity.Message, snowflake.ID](b)
}

func (b Backend) Presences() repository.Repository[entity.Presence, entity.GuildUserID] {
	return newRepository[entity.Presence, entity.GuildUserID](b)
}

func (b Backend) PrivateChannels() repository.Repository[entity.PrivateChannel, snowflake.ID] {
	return newRepository[entity.PrivateChannel, snowflake.ID](b)
}

func (b Backend) Roles() repository.Repository[entity.Role, snowflake.ID] {
	return newRepository[entity.Role, snowflake.ID](b)
}

func (b Backend) TextChannels() repository.Repository[entity.TextChannel, snowflake.ID] {
	return newRepository[entity.TextChannel, snowflake.ID](b)
}

func (b Backend) Users() repository.Repository[entity.User, snowflake.ID] {
	return newRepository[entity.User, snowflake.ID](b)
}

func (b Backend) VoiceChannels() repository.Repository[entity.VoiceChannel, snowflake.ID] {
	return newRepository[entity.VoiceChannel, snowflake.ID](b)
}

func (b Backend) VoiceStates() repository.Repository[entity.VoiceState, entity.GuildUserID] {
	return newRepository[entity.VoiceState, entity.GuildUserID](b)
}

type redisRepository[T entity.Entity[K], K repository.ID] struct {
	backend Backend
	kind    entity.Kind
}

func newRepository[T entity.Entity[K], K repository.ID](b Backend) *redisRepository[T, K] {
	return &redisRepository[T, K]{backend: b, kind: repository.KindOf[T, K]()}
}

func (r *redisRepository[T, K]) Kind() entity.Kind {
	return r.kind
}

func (r *redisRepository[T, K]) Get(ctx context.Context, id K) (T, bool, error) {
	var zero T
	key := repository.Key(r.kind, id)
	logger := r.backend.opts.Logger

	data, err := r.backend.manager.Get(ctx, key)
	if err != nil && !IsKeyNotFound(err) {
		return zero, false, err
	}

	logging := r.backend.manager.Config().Logging
	if err != nil {
		if logging.LogCacheMisses {
			logger.Debug("cache miss", zap.String("key", key))
		}
		return zero, false, nil
	}

	value, err := codec.Unmarshal[T](data)
	if err != nil {
		r.backend.manager.RecordDecodeFailure()
		logger.Warn("malformed cached value",
			zap.String("key", key),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return zero, false, fmt.Errorf("decode %s: %w", key, err)
	}

	if logging.LogCacheHits {
		logger.Debug("cache hit", zap.String("key", key))
	}
	return value, true, nil
}

func (r *redisRepository[T, K]) List(context.Context) (iter.Seq2[T, error], error) {
	return nil, repository.Unsupported(Name, "list")
}

func (r *redisRepository[T, K]) Remove(ctx context.Context, id K) error {
	if !r.backend.opts.Writable(r.kind, "remove") {
		return nil
	}
	return r.backend.manager.Delete(ctx, repository.Key(r.kind, id))
}

func (r *redisRepository[T, K]) Upsert(ctx context.Context, value T) error {
	if !r.backend.opts.Writable(r.kind, "upsert") {
		return nil
	}

	data, err := codec.Marshal(value)
	if err != nil {
		return err
	}
	return r.backend.manager.Set(ctx, repository.Key(r.kind, value.EntityID()), data)
}
