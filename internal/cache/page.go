package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// PageCachePrefix is the key prefix for cached rendered pages
	PageCachePrefix = "page:"
)

// CachedPage is a rendered response held in the cache.
type CachedPage struct {
	ContentType string
	Body        []byte
}

// PageCache stores fully rendered pages for a bounded staleness window. The
// cache is invalidated only by its TTL, never purged on writes: a listing
// may show stale content until the window elapses.
type PageCache interface {
	// Get returns the cached page for the key, or found=false on a miss.
	Get(ctx context.Context, key string) (page *CachedPage, found bool, err error)

	// Set stores the page under the key with the given TTL.
	Set(ctx context.Context, key string, page *CachedPage, ttl time.Duration) error
}

// RedisPageCache implements PageCache on Redis hashes.
type RedisPageCache struct {
	client *redis.Client
}

// NewPageCache creates a PageCache backed by Redis.
func NewPageCache(client *redis.Client) PageCache {
	return &RedisPageCache{client: client}
}

func pageKey(key string) string {
	return PageCachePrefix + key
}

func (c *RedisPageCache) Get(ctx context.Context, key string) (*CachedPage, bool, error) {
	fields, err := c.client.HGetAll(ctx, pageKey(key)).Result()
	if err != nil {
		log.Printf("[PageCache] Get FAILED: key=%s err=%v", key, err)
		return nil, false, fmt.Errorf("get page: %w", err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	return &CachedPage{
		ContentType: fields["content_type"],
		Body:        []byte(fields["body"]),
	}, true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, key string, page *CachedPage, ttl time.Duration) error {
	k := pageKey(key)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, k, "content_type", page.ContentType, "body", page.Body)
	pipe.Expire(ctx, k, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[PageCache] Set FAILED: key=%s err=%v", key, err)
		return fmt.Errorf("set page: %w", err)
	}
	return nil
}
