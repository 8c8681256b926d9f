package repository

import (
	"context"
	"iter"

	"github.com/ammar0144/raritycache/pkg/entity"
	"github.com/disgoorg/snowflake/v2"
)

// ID is the constraint on entity identifiers. String must be deterministic
// because it is used to build storage keys.
type ID interface {
	comparable
	String() string
}

// Repository defines the generic repository interface, one per entity kind
type Repository[T entity.Entity[K], K ID] interface {
	// Kind returns the entity kind served by the repository
	Kind() entity.Kind

	// Get returns the entity stored under id.
	// A missing entity is reported with found == false and a nil error.
	Get(ctx context.Context, id K) (value T, found bool, err error)

	// List returns a lazy, single-pass, unordered view over every stored entity.
	// Backends that cannot enumerate their keyspace return ErrUnsupported.
	List(ctx context.Context) (iter.Seq2[T, error], error)

	// Remove deletes the entity stored under id. Removing a missing id is not an error.
	Remove(ctx context.Context, id K) error

	// Upsert stores the entity under its own id, replacing any previous value
	Upsert(ctx context.Context, value T) error
}

// GuildLister is implemented by repositories that can serve the entities of
// one guild from an index instead of a full scan.
type GuildLister[T any] interface {
	ListGuild(ctx context.Context, guildID snowflake.ID) (iter.Seq2[T, error], error)
}

// Key builds the storage key of an entity: the kind tag followed by the
// colon separated identifier components, e.g. "m:1:2" or "r:10".
func Key[K ID](kind entity.Kind, id K) string {
	return kind.Tag() + ":" + id.String()
}

// KindOf returns the kind of entity type T
func KindOf[T entity.Entity[K], K comparable]() entity.Kind {
	var zero T
	return zero.EntityKind()
}
