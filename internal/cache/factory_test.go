package cache

import (
	"context"
	"testing"
	"time"

	"resizeit/internal/config"
	"resizeit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	cache, err := New(&config.FastCacheConfig{Enabled: false})

	require.NoError(t, err)
	assert.False(t, cache.Enabled())
	assert.IsType(t, &DisabledCache{}, cache)
}

func TestNew_Badger(t *testing.T) {
	cache, err := New(&config.FastCacheConfig{
		Enabled:   true,
		Type:      "badger",
		Directory: t.TempDir(),
		TTL:       time.Minute,
	})

	require.NoError(t, err)
	defer cache.Close()
	assert.True(t, cache.Enabled())
}

func TestNew_UnknownType(t *testing.T) {
	cache, err := New(&config.FastCacheConfig{
		Enabled: true,
		Type:    "memcached",
	})

	assert.Error(t, err)
	assert.Nil(t, cache)
}

func TestDisabledCache_AllOperationsShortCircuit(t *testing.T) {
	cache := NewDisabledCache()
	ctx := context.Background()

	assert.False(t, cache.Enabled())
	assert.Nil(t, cache.Get(ctx, "any"))
	assert.False(t, cache.Set(ctx, "any", models.NewRendition([]byte("x"), "image/webp"), time.Minute))
	assert.False(t, cache.Delete(ctx, "any"))
	assert.False(t, cache.Clear(ctx))
	assert.Error(t, cache.Health(ctx))
	assert.NoError(t, cache.Close())
}
