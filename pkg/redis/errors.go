package redis

import (
	"errors"
	"fmt"
	"net"

	"github.com/redis/go-redis/v9"
)

// Sentinel errors for Redis operations
var (
	// ErrClientNotInitialized is returned when the Redis client is nil
	ErrClientNotInitialized = errors.New("redis client not initialized")

	// ErrKeyNotFound is returned when a key doesn't exist (not an error condition for callers of Backend)
	ErrKeyNotFound = errors.New("cache key not found")

	// ErrConnectionFailed is returned when Redis cannot be reached or the pool is closed
	ErrConnectionFailed = errors.New("redis connection failed")

	// ErrInvalidKey is returned for empty keys
	ErrInvalidKey = errors.New("invalid cache key")
)

// IsKeyNotFound checks if an error is ErrKeyNotFound
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// IsConnectionFailed checks if an error is ErrConnectionFailed
func IsConnectionFailed(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// wrapError tags network and closed-pool failures with ErrConnectionFailed
// and keeps the original error visible in the message
func wrapError(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, redis.ErrClosed) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: redis %s: %v", ErrConnectionFailed, op, err)
	}
	return fmt.Errorf("redis %s error: %w", op, err)
}
