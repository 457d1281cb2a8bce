package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "learntrack/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyGeneration = "dashgen:"
	keyDashboard  = "dashboard:"
	keyProgress   = "progress:"
)

// DashboardCache caches per-user dashboard and progress series in Redis.
//
// Entries are keyed by a per-user generation. Readers take the generation
// before reading the store and fill the cache under it; InvalidateUser bumps
// it, so a fill computed from data older than the last write lands on a key
// nobody reads again.
type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDashboardCache returns a new DashboardCache.
func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

func generationKey(userID int64) string {
	return keyGeneration + strconv.FormatInt(userID, 10)
}

func userPrefix(prefix string, userID int64) string {
	return prefix + strconv.FormatInt(userID, 10) + ":"
}

func dashboardKey(userID, gen int64) string {
	return userPrefix(keyDashboard, userID) + strconv.FormatInt(gen, 10)
}

func progressKey(userID, gen int64, days int) string {
	return userPrefix(keyProgress, userID) + strconv.FormatInt(gen, 10) + ":" + strconv.Itoa(days)
}

// Generation returns the user's current cache generation, 0 before the first write.
func (c *DashboardCache) Generation(ctx context.Context, userID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// GetDashboard returns the dashboard cached under gen or nil on a miss.
func (c *DashboardCache) GetDashboard(ctx context.Context, userID, gen int64) (*dom.Dashboard, error) {
	var d dom.Dashboard
	ok, err := c.get(ctx, dashboardKey(userID, gen), &d)
	if !ok || err != nil {
		return nil, err
	}
	return &d, nil
}

// SetDashboard stores the dashboard under gen.
func (c *DashboardCache) SetDashboard(ctx context.Context, userID, gen int64, d dom.Dashboard) error {
	return c.set(ctx, dashboardKey(userID, gen), d)
}

// GetProgress returns the series for days cached under gen or nil on a miss.
func (c *DashboardCache) GetProgress(ctx context.Context, userID, gen int64, days int) (*dom.ProgressSeries, error) {
	var p dom.ProgressSeries
	ok, err := c.get(ctx, progressKey(userID, gen, days), &p)
	if !ok || err != nil {
		return nil, err
	}
	return &p, nil
}

// SetProgress stores the series for days under gen.
func (c *DashboardCache) SetProgress(ctx context.Context, userID, gen int64, days int, p dom.ProgressSeries) error {
	return c.set(ctx, progressKey(userID, gen, days), p)
}

// InvalidateUser starts a new generation for the user and drops the entries
// of older ones.
func (c *DashboardCache) InvalidateUser(ctx context.Context, userID int64) error {
	if err := c.rdb.Incr(ctx, generationKey(userID)).Err(); err != nil {
		return err
	}
	for _, prefix := range []string{keyDashboard, keyProgress} {
		iter := c.rdb.Scan(ctx, 0, userPrefix(prefix, userID)+"*", 100).Iterator()
		for iter.Next(ctx) {
			if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (c *DashboardCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DashboardCache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
