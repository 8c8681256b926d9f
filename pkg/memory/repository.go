package memory

import (
	"context"
	"iter"

	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/ammar0144/raritycache/pkg/repository"
)

// memoryRepository serves one entity kind out of its shard map.
// Values are cloned on the way in and out so callers never share slices with the store.
type memoryRepository[T entity.Entity[K], K repository.ID] struct {
	store *store
	items *shardMap[K, T]
	kind  entity.Kind
}

func newRepository[T entity.Entity[K], K repository.ID](s *store, items *shardMap[K, T]) *memoryRepository[T, K] {
	return &memoryRepository[T, K]{
		store: s,
		items: items,
		kind:  repository.KindOf[T, K](),
	}
}

func (r *memoryRepository[T, K]) Kind() entity.Kind {
	return r.kind
}

func (r *memoryRepository[T, K]) Get(ctx context.Context, id K) (T, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, false, err
	}

	v, ok := r.items.Load(id)
	if !ok {
		return v, false, nil
	}
	return entity.Clone(v), true, nil
}

func (r *memoryRepository[T, K]) List(ctx context.Context) (iter.Seq2[T, error], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return func(yield func(T, error) bool) {
		for v := range r.items.Values() {
			if !yield(entity.Clone(v), nil) {
				return
			}
		}
	}, nil
}

func (r *memoryRepository[T, K]) Remove(ctx context.Context, id K) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.store.opts.Writable(r.kind, "remove") {
		return nil
	}

	r.items.Delete(id)
	return nil
}

func (r *memoryRepository[T, K]) Upsert(ctx context.Context, value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.store.opts.Writable(r.kind, "upsert") {
		return nil
	}

	r.items.Store(value.EntityID(), entity.Clone(value))
	return nil
}

// Len returns the number of stored entities (for testing/monitoring)
func (r *memoryRepository[T, K]) Len() int {
	return r.items.Len()
}

var _ repository.Repository[entity.Member, entity.GuildUserID] = (*memoryRepository[entity.Member, entity.GuildUserID])(nil)
