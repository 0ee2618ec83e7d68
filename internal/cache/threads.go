// Package cache provides a Redis-backed cache for assembled comment
// pages. Only the anonymous view is cached - it is the one shape shared
// by every logged-out reader - and a per-post generation counter
// invalidates all of a post's pages in one operation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bloghub/pkg/logger"
	"bloghub/pkg/models"
)

// GenUnknown is returned by Get when the generation counter could not
// be read. Passing it to Set makes Set a no-op, so a page assembled
// while Redis was unreachable is never stored under a guessed
// generation.
const GenUnknown int64 = -1

// ThreadCache caches assembled thread pages keyed by post, page and
// page size.
type ThreadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewThreadCache creates a thread cache with the given TTL.
func NewThreadCache(client *redis.Client, ttl time.Duration) *ThreadCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ThreadCache{client: client, ttl: ttl}
}

func (c *ThreadCache) genKey(postID string) string {
	return fmt.Sprintf("threads:gen:%s", postID)
}

func (c *ThreadCache) pageKey(postID string, gen int64, page, pageSize int) string {
	return fmt.Sprintf("threads:%s:%d:%d:%d", postID, gen, page, pageSize)
}

func (c *ThreadCache) generation(ctx context.Context, postID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(postID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// Get returns a cached page (nil on miss) together with the generation
// it was read at. The caller must hand that generation back to Set:
// storing a page under the generation its data was read at is what
// makes an invalidation racing the assemble harmless - the write lands
// under the old, unreachable generation instead of masking the bump.
// Cache failures degrade to a miss - the assembler is the fallback, not
// an error path.
func (c *ThreadCache) Get(ctx context.Context, postID string, page, pageSize int) (*models.ThreadPage, int64) {
	gen, err := c.generation(ctx, postID)
	if err != nil {
		logger.Warnf("thread cache generation lookup failed: %v", err)
		return nil, GenUnknown
	}

	data, err := c.client.Get(ctx, c.pageKey(postID, gen, page, pageSize)).Bytes()
	if err == redis.Nil {
		return nil, gen
	}
	if err != nil {
		logger.Warnf("thread cache read failed: %v", err)
		return nil, gen
	}

	var threadPage models.ThreadPage
	if err := json.Unmarshal(data, &threadPage); err != nil {
		return nil, gen
	}
	return &threadPage, gen
}

// Set stores a page under the generation the caller observed in Get.
// A negative generation (GenUnknown) drops the write.
func (c *ThreadCache) Set(ctx context.Context, postID string, gen int64, page, pageSize int, threadPage *models.ThreadPage) {
	if gen < 0 {
		return
	}

	data, err := json.Marshal(threadPage)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, c.pageKey(postID, gen, page, pageSize), data, c.ttl).Err(); err != nil {
		logger.Warnf("thread cache write failed: %v", err)
	}
}

// InvalidatePost bumps the post's generation; pages stored under older
// generations are unreachable and expire with their TTL.
func (c *ThreadCache) InvalidatePost(ctx context.Context, postID string) {
	if err := c.client.Incr(ctx, c.genKey(postID)).Err(); err != nil {
		logger.Warnf("thread cache invalidation failed: %v", err)
	}
}
