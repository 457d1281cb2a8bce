package service

import (
	"context"
	"log"

	"learntrack/internal/cache"
)

// cacheInvalidator drops a user's cached dashboard after a write.
// A nil cache disables it.
type cacheInvalidator struct {
	cache *cache.DashboardCache
}

func (c cacheInvalidator) invalidateCache(ctx context.Context, userID int64) {
	if c.cache == nil {
		return
	}
	if err := c.cache.InvalidateUser(ctx, userID); err != nil {
		log.Printf("dashboard cache: invalidate user %d: %v", userID, err)
	}
}
