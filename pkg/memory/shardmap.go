package memory

import (
	"iter"
	"sync"

	"github.com/ammar0144/raritycache/pkg/repository"
	"github.com/cespare/xxhash/v2"
)

// shardCount must be a power of two
const shardCount = 32

// shardMap is a concurrent map split into independently locked shards.
// Every operation touches exactly one key, so per-key atomicity holds
// without any lock spanning shards or calls.
type shardMap[K repository.ID, V any] struct {
	shards [shardCount]shard[K, V]
}

type shard[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func newShardMap[K repository.ID, V any]() *shardMap[K, V] {
	m := &shardMap[K, V]{}
	for i := range m.shards {
		m.shards[i].items = make(map[K]V)
	}
	return m
}

func (m *shardMap[K, V]) shardFor(key K) *shard[K, V] {
	return &m.shards[xxhash.Sum64String(key.String())&(shardCount-1)]
}

func (m *shardMap[K, V]) Load(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	return v, ok
}

func (m *shardMap[K, V]) Store(key K, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
}

func (m *shardMap[K, V]) Delete(key K) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
}

// Len sums the shard sizes; the result is approximate under concurrent writes
func (m *shardMap[K, V]) Len() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Values walks the map one shard at a time. Each shard is copied under its
// read lock and yielded after the lock is released, so the consumer may write
// to the map while iterating. Writes to shards not yet visited are observed.
func (m *shardMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		var batch []V
		for i := range m.shards {
			s := &m.shards[i]

			s.mu.RLock()
			batch = batch[:0]
			for _, v := range s.items {
				batch = append(batch, v)
			}
			s.mu.RUnlock()

			for _, v := range batch {
				if !yield(v) {
					return
				}
			}
		}
	}
}
