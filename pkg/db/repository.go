package db

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/ammar0144/raritycache/pkg/codec"
	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sqlRepository implements the repository contract for one entity kind
type sqlRepository[T entity.Entity[K], K repository.ID] struct {
	backend Backend
	kind    entity.Kind
}

func newRepository[T entity.Entity[K], K repository.ID](b Backend) *sqlRepository[T, K] {
	return &sqlRepository[T, K]{backend: b, kind: repository.KindOf[T, K]()}
}

func (r *sqlRepository[T, K]) Kind() entity.Kind {
	return r.kind
}

func (r *sqlRepository[T, K]) db(ctx context.Context) *gorm.DB {
	return r.backend.manager.DB().WithContext(ctx)
}

func (r *sqlRepository[T, K]) Get(ctx context.Context, id K) (T, bool, error) {
	var zero T

	var rec record
	err := r.db(ctx).
		Where("kind = ? AND entity_key = ?", r.kind.Tag(), id.String()).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get %s: %w", repository.Key(r.kind, id), err)
	}

	value, err := r.decode(rec.Key, rec.Data)
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

func (r *sqlRepository[T, K]) List(ctx context.Context) (iter.Seq2[T, error], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.scan(ctx, "kind = ?", r.kind.Tag()), nil
}

// ListGuild yields the entities of one guild using the (kind, guild_id) index
func (r *sqlRepository[T, K]) ListGuild(ctx context.Context, guildID snowflake.ID) (iter.Seq2[T, error], error) {
	var zero T
	if _, ok := any(zero).(entity.GuildScoped); !ok {
		return nil, repository.Unsupported(Name, "list_guild "+r.kind.String())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.scan(ctx, "kind = ? AND guild_id = ?", r.kind.Tag(), uint64(guildID)), nil
}

// scan reads the rows matching cond one page at a time, ordered by key.
// Each page is fully read before anything is yielded, so callers may use the
// backend from inside the loop without a second connection.
func (r *sqlRepository[T, K]) scan(ctx context.Context, cond string, args ...any) iter.Seq2[T, error] {
	size := r.backend.manager.Config().listPageSize()

	return func(yield func(T, error) bool) {
		var (
			zero  T
			after string
		)
		for {
			var page []record
			err := r.db(ctx).
				Select("entity_key", "data").
				Where(cond, args...).
				Where("entity_key > ?", after).
				Order("entity_key").
				Limit(size).
				Find(&page).Error
			if err != nil {
				yield(zero, fmt.Errorf("list %s: %w", r.kind, err))
				return
			}

			for _, rec := range page {
				value, err := r.decode(rec.Key, rec.Data)
				if !yield(value, err) {
					return
				}
			}
			if len(page) < size {
				return
			}
			after = page[len(page)-1].Key
		}
	}
}

func (r *sqlRepository[T, K]) decode(key string, data []byte) (T, error) {
	value, err := codec.Unmarshal[T](data)
	if err != nil {
		r.backend.opts.Logger.Warn("malformed cached value",
			zap.Stringer("kind", r.kind),
			zap.String("key", key),
			zap.Error(err),
		)
		return value, fmt.Errorf("decode %s:%s: %w", r.kind.Tag(), key, err)
	}
	return value, nil
}

func (r *sqlRepository[T, K]) Remove(ctx context.Context, id K) error {
	if !r.backend.opts.Writable(r.kind, "remove") {
		return nil
	}

	err := r.db(ctx).
		Where("kind = ? AND entity_key = ?", r.kind.Tag(), id.String()).
		Delete(&record{}).Error
	if err != nil {
		return fmt.Errorf("remove %s: %w", repository.Key(r.kind, id), err)
	}
	return nil
}

func (r *sqlRepository[T, K]) Upsert(ctx context.Context, value T) error {
	if !r.backend.opts.Writable(r.kind, "upsert") {
		return nil
	}

	data, err := codec.Marshal(value)
	if err != nil {
		return err
	}

	rec := record{
		Kind: r.kind.Tag(),
		Key:  value.EntityID().String(),
		Data: data,
	}
	if scoped, ok := any(value).(entity.GuildScoped); ok {
		rec.GuildID = uint64(scoped.EntityGuildID())
	}

	err = r.db(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "entity_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"guild_id", "data"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", repository.Key(r.kind, value.EntityID()), err)
	}
	return nil
}

var _ repository.GuildLister[entity.Role] = (*sqlRepository[entity.Role, snowflake.ID])(nil)
