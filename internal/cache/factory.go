package cache

import (
	"fmt"

	"resizeit/internal/config"
	"resizeit/pkg/logger"

	"go.uber.org/zap"
)

// CacheType represents the fast-cache backend
type CacheType string

const (
	CacheTypeDragonfly CacheType = "dragonfly"
	CacheTypeBadger    CacheType = "badger"
)

// New creates the fast cache selected by configuration. A disabled fast
// cache is a first-class state, not an error.
func New(cfg *config.FastCacheConfig) (FastCache, error) {
	if !cfg.Enabled {
		logger.Info("Fast cache is disabled")
		return NewDisabledCache(), nil
	}

	logger.Info("Initializing fast cache",
		zap.String("type", cfg.Type))

	switch CacheType(cfg.Type) {
	case CacheTypeDragonfly:
		return NewDragonflyCache(cfg)

	case CacheTypeBadger:
		return NewBadgerCache(cfg)

	default:
		return nil, fmt.Errorf("unsupported fast cache type: %s", cfg.Type)
	}
}
