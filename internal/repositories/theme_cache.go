package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ThemeCache keeps the published theme CSS hot for the public storefront
// path. Publish and reset invalidate the entry; a miss falls through to the
// stores table.
type ThemeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewThemeCache(rdb *redis.Client) *ThemeCache {
	return &ThemeCache{rdb: rdb, ttl: 15 * time.Minute}
}

func themeKey(storeID int) string {
	return fmt.Sprintf("theme:css:%d", storeID)
}

// GetThemeCSS returns the cached CSS and whether the entry was present. Cache
// errors are returned as misses; the storefront must not fail on a cold or
// unreachable cache.
func (c *ThemeCache) GetThemeCSS(ctx context.Context, storeID int) (string, bool) {
	if c == nil || c.rdb == nil {
		return "", false
	}
	val, err := c.rdb.Get(ctx, themeKey(storeID)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *ThemeCache) SetThemeCSS(ctx context.Context, storeID int, css string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Set(ctx, themeKey(storeID), css, c.ttl).Err()
}

func (c *ThemeCache) InvalidateTheme(ctx context.Context, storeID int) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, themeKey(storeID)).Err()
}
