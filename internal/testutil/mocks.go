package testutil

import (
	"context"
	"time"

	"resizeit/internal/models"
	"resizeit/internal/service"
	"resizeit/internal/storage"
)

// MockObjectStore is a mock implementation of storage.ObjectStore
type MockObjectStore struct {
	InitializeFunc func(ctx context.Context) error
	GetFunc        func(ctx context.Context, key string) ([]byte, string, error)
	PutFunc        func(ctx context.Context, key string, data []byte, contentType string) (string, error)
	ExistsFunc     func(ctx context.Context, key string) (bool, error)
	RemoveFunc     func(ctx context.Context, key string) error
	RemoveManyFunc func(ctx context.Context, keys []string) (int, error)
	ListFunc       func(ctx context.Context, prefix string, limit int, marker string) ([]storage.ObjectInfo, string, error)
	URLForFunc     func(key, baseURL string) string
	HealthFunc     func(ctx context.Context) error
}

func (m *MockObjectStore) Initialize(ctx context.Context) error {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx)
	}
	return nil
}

func (m *MockObjectStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, "", models.NotFoundError{Resource: "Object", Path: key}
}

func (m *MockObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, data, contentType)
	}
	return key, nil
}

func (m *MockObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, key)
	}
	return false, nil
}

func (m *MockObjectStore) Remove(ctx context.Context, key string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, key)
	}
	return nil
}

func (m *MockObjectStore) RemoveMany(ctx context.Context, keys []string) (int, error) {
	if m.RemoveManyFunc != nil {
		return m.RemoveManyFunc(ctx, keys)
	}
	return len(keys), nil
}

func (m *MockObjectStore) List(ctx context.Context, prefix string, limit int, marker string) ([]storage.ObjectInfo, string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, prefix, limit, marker)
	}
	return nil, "", nil
}

func (m *MockObjectStore) URLFor(key, baseURL string) string {
	if m.URLForFunc != nil {
		return m.URLForFunc(key, baseURL)
	}
	return "http://localhost:9000/images/" + key
}

func (m *MockObjectStore) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// MockFastCache is a mock implementation of cache.FastCache
type MockFastCache struct {
	EnabledValue bool
	GetFunc      func(ctx context.Context, key string) *models.CachedRendition
	SetFunc      func(ctx context.Context, key string, rendition *models.CachedRendition, ttl time.Duration) bool
	DeleteFunc   func(ctx context.Context, key string) bool
	ClearFunc    func(ctx context.Context) bool
	HealthFunc   func(ctx context.Context) error
	CloseFunc    func() error
}

func (m *MockFastCache) Enabled() bool {
	return m.EnabledValue
}

func (m *MockFastCache) Get(ctx context.Context, key string) *models.CachedRendition {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil
}

func (m *MockFastCache) Set(ctx context.Context, key string, rendition *models.CachedRendition, ttl time.Duration) bool {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, rendition, ttl)
	}
	return m.EnabledValue
}

func (m *MockFastCache) Delete(ctx context.Context, key string) bool {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return m.EnabledValue
}

func (m *MockFastCache) Clear(ctx context.Context) bool {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return m.EnabledValue
}

func (m *MockFastCache) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

func (m *MockFastCache) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockTransformEngine is a mock implementation of service.TransformEngine
type MockTransformEngine struct {
	TransformFunc      func(ctx context.Context, data []byte, opts models.TransformOptions) ([]byte, error)
	ApplyWatermarkFunc func(ctx context.Context, data []byte, wm models.WatermarkOptions) ([]byte, error)
}

func (m *MockTransformEngine) Transform(ctx context.Context, data []byte, opts models.TransformOptions) ([]byte, error) {
	if m.TransformFunc != nil {
		return m.TransformFunc(ctx, data, opts)
	}
	return data, nil
}

func (m *MockTransformEngine) ApplyWatermark(ctx context.Context, data []byte, wm models.WatermarkOptions) ([]byte, error) {
	if m.ApplyWatermarkFunc != nil {
		return m.ApplyWatermarkFunc(ctx, data, wm)
	}
	return data, nil
}

// MockImageService is a mock implementation of service.ImageService
type MockImageService struct {
	ResizeFunc func(ctx context.Context, path string, opts models.TransformOptions) (*models.CachedRendition, error)
	UploadFunc func(ctx context.Context, input service.UploadInput) (*service.UploadResult, error)
}

func (m *MockImageService) Resize(ctx context.Context, path string, opts models.TransformOptions) (*models.CachedRendition, error) {
	if m.ResizeFunc != nil {
		return m.ResizeFunc(ctx, path, opts)
	}
	return nil, nil
}

func (m *MockImageService) Upload(ctx context.Context, input service.UploadInput) (*service.UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, input)
	}
	return nil, nil
}

// MockAdminService is a mock implementation of service.AdminService
type MockAdminService struct {
	StatsFunc            func(ctx context.Context) *models.StatsSnapshot
	ClearObjectCacheFunc func(ctx context.Context, pattern string) (int, error)
	ListObjectCacheFunc  func(ctx context.Context, prefix string, limit int, marker string) ([]models.CacheObjectInfo, string, error)
	ClearFastCacheFunc   func(ctx context.Context) error
	HealthFunc           func(ctx context.Context) *models.AdminHealthResponse
}

func (m *MockAdminService) Stats(ctx context.Context) *models.StatsSnapshot {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.StatsSnapshot{}
}

func (m *MockAdminService) ClearObjectCache(ctx context.Context, pattern string) (int, error) {
	if m.ClearObjectCacheFunc != nil {
		return m.ClearObjectCacheFunc(ctx, pattern)
	}
	return 0, nil
}

func (m *MockAdminService) ListObjectCache(ctx context.Context, prefix string, limit int, marker string) ([]models.CacheObjectInfo, string, error) {
	if m.ListObjectCacheFunc != nil {
		return m.ListObjectCacheFunc(ctx, prefix, limit, marker)
	}
	return nil, "", nil
}

func (m *MockAdminService) ClearFastCache(ctx context.Context) error {
	if m.ClearFastCacheFunc != nil {
		return m.ClearFastCacheFunc(ctx)
	}
	return nil
}

func (m *MockAdminService) Health(ctx context.Context) *models.AdminHealthResponse {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return &models.AdminHealthResponse{Status: "healthy"}
}

// MockRecorder is a mock implementation of service.MetricsRecorder
type MockRecorder struct {
	RequestMetrics    []models.RequestMetric
	ProcessingMetrics []models.ProcessingMetric
	CacheMetrics      []models.CacheMetric
	SnapshotFunc      func() *models.StatsSnapshot
}

func (m *MockRecorder) RecordRequest(metric models.RequestMetric) {
	m.RequestMetrics = append(m.RequestMetrics, metric)
}

func (m *MockRecorder) RecordProcessing(metric models.ProcessingMetric) {
	m.ProcessingMetrics = append(m.ProcessingMetrics, metric)
}

func (m *MockRecorder) RecordCache(metric models.CacheMetric) {
	m.CacheMetrics = append(m.CacheMetrics, metric)
}

func (m *MockRecorder) Snapshot() *models.StatsSnapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return &models.StatsSnapshot{}
}
