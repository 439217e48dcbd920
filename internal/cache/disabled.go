package cache

import (
	"context"
	"fmt"
	"time"

	"resizeit/internal/models"
)

// DisabledCache is the permanent no-op state of the fast-cache tier.
// Every method short-circuits to its empty result at zero cost.
type DisabledCache struct{}

var _ FastCache = (*DisabledCache)(nil)

// NewDisabledCache returns the no-op fast cache
func NewDisabledCache() *DisabledCache {
	return &DisabledCache{}
}

func (d *DisabledCache) Enabled() bool {
	return false
}

func (d *DisabledCache) Get(ctx context.Context, key string) *models.CachedRendition {
	return nil
}

func (d *DisabledCache) Set(ctx context.Context, key string, rendition *models.CachedRendition, ttl time.Duration) bool {
	return false
}

func (d *DisabledCache) Delete(ctx context.Context, key string) bool {
	return false
}

func (d *DisabledCache) Clear(ctx context.Context) bool {
	return false
}

func (d *DisabledCache) Health(ctx context.Context) error {
	return fmt.Errorf("fast cache is disabled")
}

func (d *DisabledCache) Close() error {
	return nil
}
