package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloghub/pkg/models"
)

func newTestCache(t *testing.T) (*ThreadCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewThreadCache(client, time.Minute), mr
}

func pageWithRoots(n int) *models.ThreadPage {
	return &models.ThreadPage{
		Comments:   []models.CommentView{},
		TotalRoots: n,
		Page:       1,
		PageSize:   20,
		TotalPages: 1,
	}
}

func TestThreadCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cached, gen := cache.Get(ctx, "post-1", 1, 20)
	assert.Nil(t, cached)
	assert.Equal(t, int64(0), gen)

	cache.Set(ctx, "post-1", gen, 1, 20, pageWithRoots(3))

	cached, gen2 := cache.Get(ctx, "post-1", 1, 20)
	require.NotNil(t, cached)
	assert.Equal(t, 3, cached.TotalRoots)
	assert.Equal(t, gen, gen2)

	// Different page coordinates stay independent
	cached, _ = cache.Get(ctx, "post-1", 2, 20)
	assert.Nil(t, cached)
}

func TestThreadCacheInvalidatePost(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, gen := cache.Get(ctx, "post-1", 1, 20)
	cache.Set(ctx, "post-1", gen, 1, 20, pageWithRoots(3))

	cache.InvalidatePost(ctx, "post-1")

	cached, _ := cache.Get(ctx, "post-1", 1, 20)
	assert.Nil(t, cached)

	// Other posts keep their generation
	_, otherGen := cache.Get(ctx, "post-2", 1, 20)
	assert.Equal(t, int64(0), otherGen)
}

// A page assembled before an invalidation must not become readable
// after it: the write lands under the generation Get observed, which
// the invalidation has already moved past.
func TestThreadCacheInvalidationDuringAssemble(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cached, gen := cache.Get(ctx, "post-1", 1, 20)
	require.Nil(t, cached)

	// A mutation lands between the miss and the store
	cache.InvalidatePost(ctx, "post-1")
	cache.Set(ctx, "post-1", gen, 1, 20, pageWithRoots(1))

	cached, newGen := cache.Get(ctx, "post-1", 1, 20)
	assert.Nil(t, cached, "page from before the invalidation must stay unreachable")
	assert.Greater(t, newGen, gen)

	// The next store under the new generation is served normally
	cache.Set(ctx, "post-1", newGen, 1, 20, pageWithRoots(0))
	cached, _ = cache.Get(ctx, "post-1", 1, 20)
	require.NotNil(t, cached)
	assert.Equal(t, 0, cached.TotalRoots)
}

// When Redis is unreachable at Get time the generation is unknown and
// the subsequent Set must drop the write rather than guess.
func TestThreadCacheSetDroppedWithoutGeneration(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	mr.SetError("connection refused")
	cached, gen := cache.Get(ctx, "post-1", 1, 20)
	assert.Nil(t, cached)
	assert.Equal(t, GenUnknown, gen)
	mr.SetError("")

	cache.Set(ctx, "post-1", gen, 1, 20, pageWithRoots(5))

	cached, _ = cache.Get(ctx, "post-1", 1, 20)
	assert.Nil(t, cached)
}
