package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrCacheMiss is returned by caches that do not hold the requested key
var ErrCacheMiss = errors.New("cache miss")

// CacheService represents a generic cache service
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// Key builds a memcache-safe key in namespace for an arbitrary raw string.
// Raw values such as addresses or URLs contain spaces and may exceed the
// 250 byte memcache limit, so they are hashed.
func Key(namespace, raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "listingworker:" + namespace + ":" + hex.EncodeToString(sum[:16])
}
