package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewCache caches dashboard projections in Redis. Cache failures are never
// surfaced to callers; a miss just means a rebuild from Postgres.
type ViewCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewViewCache(redisClient *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{redis: redisClient, ttl: ttl}
}

func employerDashboardKey(employerID string) string {
	return fmt.Sprintf("dashboard:employer:%s", employerID)
}

func workerDashboardKey(workerID string) string {
	return fmt.Sprintf("dashboard:worker:%s", workerID)
}

// Get unmarshals a cached projection into dest, reporting whether it was found.
func (c *ViewCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.redis == nil {
		return false
	}

	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("view cache: dropping undecodable entry %s: %v", key, err)
		c.redis.Del(ctx, key)
		return false
	}

	return true
}

func (c *ViewCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.redis == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("view cache: set %s failed: %v", key, err)
	}
}

// InvalidateParties drops both dashboards touched by a mutation. Every write
// affects exactly one employer and one worker.
func (c *ViewCache) InvalidateParties(ctx context.Context, employerID, workerID string) {
	if c == nil || c.redis == nil {
		return
	}

	if err := c.redis.Del(ctx, employerDashboardKey(employerID), workerDashboardKey(workerID)).Err(); err != nil {
		log.Printf("view cache: invalidation failed for employer=%s worker=%s: %v", employerID, workerID, err)
	}
}
