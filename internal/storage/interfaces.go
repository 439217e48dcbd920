package storage

import (
	"context"
	"time"
)

// ObjectStore abstracts S3-compatible object storage holding both the
// uploaded originals and the derived cache entries.
type ObjectStore interface {
	// Initialize verifies connectivity and credentials against the
	// configured endpoint and bucket. Failures surface as
	// StorageUnavailableError so startup can retry with backoff.
	Initialize(ctx context.Context) error

	// Get retrieves object bytes and content type. A missing object is a
	// NotFoundError, any other provider fault a StorageError.
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Put stores an object, overwriting unconditionally. Content at a
	// cache key is immutable-by-construction, so last-write-wins is safe.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Exists treats not-found as false, not an error
	Exists(ctx context.Context, key string) (bool, error)

	// Remove deletes a single object
	Remove(ctx context.Context, key string) error

	// RemoveMany deletes objects in provider-sized batches. A failed
	// batch does not stop remaining batches; the returned count covers
	// confirmed deletions and the error aggregates every batch failure.
	RemoveMany(ctx context.Context, keys []string) (int, error)

	// List returns objects under prefix with marker-based pagination.
	// Backends without native listing degrade to an empty result: an
	// empty page means "nothing found", not proof of an empty cache.
	List(ctx context.Context, prefix string, limit int, marker string) ([]ObjectInfo, string, error)

	// URLFor builds a client-facing URL through the resize endpoint when
	// baseURL is set, or a direct storage URL otherwise
	URLFor(key string, baseURL string) string

	// Health checks storage connectivity
	Health(ctx context.Context) error
}

// ObjectInfo describes a stored object in listings
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag"`
}
