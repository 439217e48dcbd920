package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"resizeit/internal/cache"
	"resizeit/internal/config"
	"resizeit/internal/models"
	"resizeit/internal/storage"
	"resizeit/pkg/logger"
)

// imageService implements ImageService with a two-tier cache in front
// of the transform engine
type imageService struct {
	store    storage.ObjectStore
	fast     cache.FastCache
	engine   TransformEngine
	recorder MetricsRecorder
	config   *config.Config
}

// NewImageService creates the resize orchestrator
func NewImageService(store storage.ObjectStore, fast cache.FastCache, engine TransformEngine, recorder MetricsRecorder, cfg *config.Config) ImageService {
	return &imageService{
		store:    store,
		fast:     fast,
		engine:   engine,
		recorder: recorder,
		config:   cfg,
	}
}

// Resize returns a cached rendition when available and otherwise
// transforms the original, writing the result back to both cache tiers
func (s *imageService) Resize(ctx context.Context, path string, opts models.TransformOptions) (*models.CachedRendition, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, models.ValidationError{Field: "path", Message: "image path is required"}
	}

	digest := models.DeriveCacheKey(path, opts)
	fastKey := models.FastCacheKey(digest)
	cachePath := models.ObjectCachePath(digest)

	if s.config.Cache.Enabled {
		if rendition := s.lookupCache(ctx, fastKey, cachePath); rendition != nil {
			return rendition, nil
		}
	}

	original, _, err := s.store.Get(ctx, path)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NotFoundError{Resource: "Image", Path: path}
		}
		return nil, err
	}

	data, err := s.engine.Transform(ctx, original, opts)
	if err != nil {
		return nil, err
	}

	rendition := models.NewRendition(data, models.ContentTypeForFormat(opts.Format))

	if s.config.Cache.Enabled {
		s.writeBack(ctx, fastKey, cachePath, rendition)
	}

	s.recordCache(models.CacheMiss, "", 0)
	return rendition, nil
}

// lookupCache probes the fast tier then the object tier. An object-tier
// hit backfills the fast tier. Lookup errors degrade to a miss.
func (s *imageService) lookupCache(ctx context.Context, fastKey, cachePath string) *models.CachedRendition {
	start := time.Now()

	if rendition := s.fast.Get(ctx, fastKey); rendition != nil {
		s.recordCache(models.CacheHit, models.TierFast, time.Since(start))
		return rendition
	}

	data, contentType, err := s.store.Get(ctx, cachePath)
	if err != nil {
		if !models.IsNotFound(err) {
			logger.WarnWithContext(ctx, "Cache lookup failed, treating as miss",
				zap.String("key", cachePath),
				zap.Error(err))
		}
		return nil
	}

	rendition := models.NewRendition(data, contentType)
	s.fast.Set(ctx, fastKey, rendition, s.config.FastCache.TTL)
	s.recordCache(models.CacheHit, models.TierObject, time.Since(start))
	return rendition
}

// writeBack stores the rendition in both tiers. Failures are logged
// and never surfaced; the response is already in hand.
func (s *imageService) writeBack(ctx context.Context, fastKey, cachePath string, rendition *models.CachedRendition) {
	start := time.Now()

	if _, err := s.store.Put(ctx, cachePath, rendition.Data, rendition.ContentType); err != nil {
		logger.WarnWithContext(ctx, "Cache write-back failed",
			zap.String("key", cachePath),
			zap.Error(err))
	}

	s.fast.Set(ctx, fastKey, rendition, s.config.FastCache.TTL)
	s.recordCache(models.CacheWrite, models.TierObject, time.Since(start))
}

func (s *imageService) recordCache(operation, tier string, duration time.Duration) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordCache(models.CacheMetric{
		Operation: operation,
		Tier:      tier,
		Duration:  duration,
		Timestamp: time.Now(),
	})
}

// Upload stores a new original, watermarking it first when requested
func (s *imageService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	path := strings.TrimPrefix(input.Path, "/")
	if path == "" {
		return nil, models.ValidationError{Field: "path", Message: "path is required"}
	}
	if len(input.Data) == 0 {
		return nil, models.ValidationError{Field: "image", Message: "image data is required"}
	}
	if int64(len(input.Data)) > s.config.Image.MaxFileSize {
		return nil, models.ValidationError{Field: "image", Message: "image exceeds maximum file size"}
	}

	data := input.Data
	if input.Watermark != nil {
		watermarked, err := s.engine.ApplyWatermark(ctx, data, *input.Watermark)
		if err != nil {
			return nil, err
		}
		data = watermarked
	}

	if _, err := s.store.Put(ctx, path, data, input.ContentType); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Image uploaded",
		zap.String("path", path),
		zap.Int("size", len(data)))

	return &UploadResult{
		Path: path,
		URL:  s.store.URLFor(path, s.config.Server.PublicURL),
	}, nil
}
