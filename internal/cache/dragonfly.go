package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resizeit/internal/config"
	"resizeit/internal/models"
	"resizeit/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DragonflyCache implements FastCache against a Redis-protocol server
// (Dragonfly, Redis, KeyDB)
type DragonflyCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

var _ FastCache = (*DragonflyCache)(nil)

// NewDragonflyCache creates a new Dragonfly-backed fast cache. The
// connection is probed once; a failed probe is an error so the factory
// can fall back to the disabled cache.
func NewDragonflyCache(cfg *config.FastCacheConfig) (*DragonflyCache, error) {
	logger.Info("Initializing Dragonfly fast cache",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Duration("ttl", cfg.TTL))

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Dragonfly: %w", err)
	}

	logger.Info("Dragonfly fast cache initialized successfully")
	return &DragonflyCache{
		client:     client,
		defaultTTL: cfg.TTL,
	}, nil
}

// Enabled reports this tier as active
func (d *DragonflyCache) Enabled() bool {
	return true
}

// Get returns the cached rendition or nil on miss/error
func (d *DragonflyCache) Get(ctx context.Context, key string) *models.CachedRendition {
	raw, err := d.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WarnWithContext(ctx, "Fast cache get failed",
				zap.String("key", key),
				zap.Error(err))
		}
		return nil
	}

	var rendition models.CachedRendition
	if err := json.Unmarshal(raw, &rendition); err != nil {
		logger.WarnWithContext(ctx, "Fast cache entry is corrupt, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return nil
	}

	return &rendition
}

// Set stores a rendition under key with the given or default TTL
func (d *DragonflyCache) Set(ctx context.Context, key string, rendition *models.CachedRendition, ttl time.Duration) bool {
	if rendition == nil {
		return false
	}
	if ttl <= 0 {
		ttl = d.defaultTTL
	}

	raw, err := json.Marshal(rendition)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to serialize rendition for fast cache",
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	if err := d.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.WarnWithContext(ctx, "Fast cache set failed",
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	return true
}

// Delete removes a single key
func (d *DragonflyCache) Delete(ctx context.Context, key string) bool {
	if err := d.client.Del(ctx, key).Err(); err != nil {
		logger.WarnWithContext(ctx, "Fast cache delete failed",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return true
}

// Clear flushes the whole database
func (d *DragonflyCache) Clear(ctx context.Context) bool {
	if err := d.client.FlushDB(ctx).Err(); err != nil {
		logger.WarnWithContext(ctx, "Fast cache flush failed", zap.Error(err))
		return false
	}
	return true
}

// Health checks connectivity with a ping
func (d *DragonflyCache) Health(ctx context.Context) error {
	if err := d.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Dragonfly health check failed: %w", err)
	}
	return nil
}

// Close releases the client connection
func (d *DragonflyCache) Close() error {
	logger.Info("Closing Dragonfly fast cache")
	return d.client.Close()
}
