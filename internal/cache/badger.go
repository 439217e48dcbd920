package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"resizeit/internal/config"
	"resizeit/internal/models"
	"resizeit/pkg/logger"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// BadgerCache implements FastCache on embedded BadgerDB, for deployments
// without a Dragonfly server
type BadgerCache struct {
	db         *badger.DB
	defaultTTL time.Duration
}

var _ FastCache = (*BadgerCache)(nil)

// NewBadgerCache creates a new BadgerDB-backed fast cache
func NewBadgerCache(cfg *config.FastCacheConfig) (*BadgerCache, error) {
	logger.Info("Initializing BadgerDB fast cache",
		zap.String("directory", cfg.Directory),
		zap.Duration("ttl", cfg.TTL))

	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Directory)
	opts.Logger = &badgerLogger{} // Route BadgerDB logs through zap

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	logger.Info("BadgerDB fast cache initialized successfully")
	return &BadgerCache{
		db:         db,
		defaultTTL: cfg.TTL,
	}, nil
}

// Enabled reports this tier as active
func (b *BadgerCache) Enabled() bool {
	return true
}

// Get returns the cached rendition or nil on miss/error
func (b *BadgerCache) Get(ctx context.Context, key string) *models.CachedRendition {
	var raw []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
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
func (b *BadgerCache) Set(ctx context.Context, key string, rendition *models.CachedRendition, ttl time.Duration) bool {
	if rendition == nil {
		return false
	}
	if ttl <= 0 {
		ttl = b.defaultTTL
	}

	raw, err := json.Marshal(rendition)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to serialize rendition for fast cache",
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), raw).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Fast cache set failed",
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	return true
}

// Delete removes a single key
func (b *BadgerCache) Delete(ctx context.Context, key string) bool {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Fast cache delete failed",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return true
}

// Clear drops all keys
func (b *BadgerCache) Clear(ctx context.Context) bool {
	if err := b.db.DropAll(); err != nil {
		logger.WarnWithContext(ctx, "Fast cache drop failed", zap.Error(err))
		return false
	}
	return true
}

// Health verifies the store with a write/delete round trip
func (b *BadgerCache) Health(ctx context.Context) error {
	testKey := fmt.Sprintf("health:check:%d", time.Now().UnixNano())

	err := b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(testKey), []byte("ok")).WithTTL(time.Second)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("BadgerDB write test failed: %w", err)
	}

	return nil
}

// Close closes the database
func (b *BadgerCache) Close() error {
	logger.Info("Closing BadgerDB fast cache")
	return b.db.Close()
}

// badgerLogger adapts BadgerDB's logger interface to zap
type badgerLogger struct{}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error("BadgerDB: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warn("BadgerDB: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	logger.Debug("BadgerDB: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	logger.Debug("BadgerDB: " + strings.TrimSpace(fmt.Sprintf(format, args...)))
}
