package service

import (
	"context"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"resizeit/internal/cache"
	"resizeit/internal/models"
	"resizeit/internal/storage"
	"resizeit/pkg/logger"
)

const clearPageSize = 1000

// adminService implements cache maintenance and health reporting
type adminService struct {
	store    storage.ObjectStore
	fast     cache.FastCache
	recorder MetricsRecorder
}

// NewAdminService creates the admin service
func NewAdminService(store storage.ObjectStore, fast cache.FastCache, recorder MetricsRecorder) AdminService {
	return &adminService{
		store:    store,
		fast:     fast,
		recorder: recorder,
	}
}

func (s *adminService) Stats(ctx context.Context) *models.StatsSnapshot {
	return s.recorder.Snapshot()
}

// ClearObjectCache walks the durable cache namespace and deletes every
// key matching pattern. An empty or "*" pattern matches everything.
func (s *adminService) ClearObjectCache(ctx context.Context, pattern string) (int, error) {
	deleted := 0
	marker := ""

	for {
		objects, next, err := s.store.List(ctx, models.ObjectCachePrefix, clearPageSize, marker)
		if err != nil {
			return deleted, err
		}
		if len(objects) == 0 {
			break
		}

		keys := make([]string, 0, len(objects))
		for _, obj := range objects {
			if matchesPattern(obj.Key, pattern) {
				keys = append(keys, obj.Key)
			}
		}

		if len(keys) > 0 {
			count, err := s.store.RemoveMany(ctx, keys)
			deleted += count
			if err != nil {
				return deleted, err
			}
		}

		if next == "" {
			break
		}
		marker = next
	}

	logger.InfoWithContext(ctx, "Object cache cleared",
		zap.String("pattern", pattern),
		zap.Int("deleted", deleted))
	return deleted, nil
}

// matchesPattern supports exact matches plus a single trailing or
// leading wildcard
func matchesPattern(key, pattern string) bool {
	switch {
	case pattern == "" || pattern == "*":
		return true
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(key, strings.TrimPrefix(pattern, "*"))
	default:
		return strings.Contains(key, pattern)
	}
}

func (s *adminService) ListObjectCache(ctx context.Context, prefix string, limit int, marker string) ([]models.CacheObjectInfo, string, error) {
	fullPrefix := models.ObjectCachePrefix + strings.TrimPrefix(prefix, "/")

	objects, next, err := s.store.List(ctx, fullPrefix, limit, marker)
	if err != nil {
		return nil, "", err
	}

	infos := make([]models.CacheObjectInfo, 0, len(objects))
	for _, obj := range objects {
		infos = append(infos, models.CacheObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return infos, next, nil
}

func (s *adminService) ClearFastCache(ctx context.Context) error {
	if !s.fast.Enabled() {
		return models.UnsupportedError{Operation: "clear", Reason: "fast cache is not enabled"}
	}
	if !s.fast.Clear(ctx) {
		return models.StorageError{Operation: "clear", Reason: "fast cache flush failed"}
	}
	logger.InfoWithContext(ctx, "Fast cache cleared")
	return nil
}

// Health probes each dependency and reports process memory usage
func (s *adminService) Health(ctx context.Context) *models.AdminHealthResponse {
	deps := make(map[string]string)
	status := "healthy"

	if err := s.store.Health(ctx); err != nil {
		deps["s3"] = "unhealthy: " + err.Error()
		status = "degraded"
	} else {
		deps["s3"] = "healthy"
	}

	if s.fast.Enabled() {
		if err := s.fast.Health(ctx); err != nil {
			deps["fast_cache"] = "unhealthy: " + err.Error()
			status = "degraded"
		} else {
			deps["fast_cache"] = "healthy"
		}
	} else {
		deps["fast_cache"] = "disabled"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &models.AdminHealthResponse{
		Status:       status,
		Dependencies: deps,
		Memory: models.MemoryInfo{
			AllocMB:      float64(mem.Alloc) / 1024 / 1024,
			TotalAllocMB: float64(mem.TotalAlloc) / 1024 / 1024,
			SysMB:        float64(mem.Sys) / 1024 / 1024,
		},
		Timestamp: time.Now(),
	}
}
