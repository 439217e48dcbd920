package cache

import (
	"context"
	"time"

	"resizeit/internal/models"
)

// FastCache is the optional low-latency tier in front of the durable
// object-storage cache. Every operation is advisory: Get returns nil on
// any connectivity or serialization failure (treated as a miss), Set and
// Delete report false instead of erroring. Callers never treat fast-cache
// failure as a pipeline failure.
type FastCache interface {
	// Enabled reports whether this tier is active. A disabled cache
	// short-circuits every method to its empty result.
	Enabled() bool

	// Get returns the cached rendition or nil on miss/error
	Get(ctx context.Context, key string) *models.CachedRendition

	// Set stores a rendition under key. A zero ttl falls back to the
	// configured default.
	Set(ctx context.Context, key string, rendition *models.CachedRendition, ttl time.Duration) bool

	// Delete removes a single key
	Delete(ctx context.Context, key string) bool

	// Clear flushes the whole cache
	Clear(ctx context.Context) bool

	// Health checks backend connectivity
	Health(ctx context.Context) error

	// Close releases the backend connection
	Close() error
}
