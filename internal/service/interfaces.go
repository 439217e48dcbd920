package service

import (
	"context"

	"resizeit/internal/models"
)

// ImageService defines the resize and upload business logic
type ImageService interface {
	// Resize serves a rendition for the stored image at path, consulting
	// both cache tiers before transforming
	Resize(ctx context.Context, path string, opts models.TransformOptions) (*models.CachedRendition, error)

	// Upload stores a new original, applying an optional watermark first
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// TransformEngine decodes, transforms and encodes image bytes
type TransformEngine interface {
	// Transform applies the full pipeline for the given options
	Transform(ctx context.Context, data []byte, opts models.TransformOptions) ([]byte, error)

	// ApplyWatermark composites a watermark and re-encodes in the input's
	// own format, for upload-time watermarking
	ApplyWatermark(ctx context.Context, data []byte, wm models.WatermarkOptions) ([]byte, error)
}

// AdminService defines cache inspection and maintenance operations
type AdminService interface {
	// Stats returns the aggregated metrics snapshot
	Stats(ctx context.Context) *models.StatsSnapshot

	// ClearObjectCache deletes cache entries matching pattern, returning
	// the number of removed objects
	ClearObjectCache(ctx context.Context, pattern string) (int, error)

	// ListObjectCache pages through cache entries with a marker cursor
	ListObjectCache(ctx context.Context, prefix string, limit int, marker string) ([]models.CacheObjectInfo, string, error)

	// ClearFastCache flushes the fast cache tier
	ClearFastCache(ctx context.Context) error

	// Health reports per-dependency status and process memory
	Health(ctx context.Context) *models.AdminHealthResponse
}

// MetricsRecorder records pipeline events into the stats aggregator.
// Recording is decision-free: callers never branch on the outcome.
type MetricsRecorder interface {
	RecordRequest(m models.RequestMetric)
	RecordProcessing(m models.ProcessingMetric)
	RecordCache(m models.CacheMetric)
	Snapshot() *models.StatsSnapshot
}

// AssetFetcher loads watermark assets from object storage
type AssetFetcher func(ctx context.Context, path string) ([]byte, error)

// UploadInput represents input for storing a new original
type UploadInput struct {
	Path        string
	ContentType string
	Data        []byte
	Watermark   *models.WatermarkOptions
}

// UploadResult represents the stored original
type UploadResult struct {
	Path string
	URL  string
}
