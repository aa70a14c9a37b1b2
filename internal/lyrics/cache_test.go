// internal/lyrics/cache_test.go
package lyrics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKeyNormalizes(t *testing.T) {
	assert.Equal(t, CacheKey("Adele", "Hello"), CacheKey("  ADELE ", "hello "))
}

func TestMemoryCacheTTL(t *testing.T) {
	c := NewMemoryCache(time.Minute, 8)
	ctx := context.Background()

	c.Set(ctx, "k", "some lyrics")
	text, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "some lyrics", text)

	// Advance past the TTL.
	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "expired entries are gone")
}

func TestMemoryCacheEvictsOldestFirst(t *testing.T) {
	c := NewMemoryCache(time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), "text")
	}

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get(ctx, "k0")
	assert.False(t, ok, "the oldest entry is evicted")
	for i := 1; i < 4; i++ {
		_, ok := c.Get(ctx, fmt.Sprintf("k%d", i))
		assert.True(t, ok, "k%d should survive", i)
	}
}

func TestMemoryCacheUpdateDoesNotGrow(t *testing.T) {
	c := NewMemoryCache(time.Minute, 3)
	ctx := context.Background()

	c.Set(ctx, "k", "one")
	c.Set(ctx, "k", "two")
	assert.Equal(t, 1, c.Len())
	text, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "two", text)
}
