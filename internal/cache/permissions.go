// Package cache holds the Redis-backed permission-set cache.  Permission
// resolution is a three-table join executed on every guarded request, so the
// resolved set is kept in Redis for a bounded TTL and dropped whenever the
// role/menu graph or a user's role assignment changes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const permKeyPrefix = "perms:"

// PermissionCache caches resolved permission sets per user.  A nil client
// disables the cache entirely: every lookup misses and every write is a
// no-op, so the service works unchanged without Redis.
type PermissionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPermissionCache(rdb *redis.Client, ttl time.Duration) *PermissionCache {
	return &PermissionCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached permission strings for a user and whether the
// cache held an entry.  Any Redis failure is treated as a miss.
func (c *PermissionCache) Get(ctx context.Context, userID uint64) ([]string, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, permKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, false
	}
	return perms, true
}

// Set stores the permission strings for a user with the configured TTL.
func (c *PermissionCache) Set(ctx context.Context, userID uint64, perms []string) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, permKey(userID), raw, c.ttl).Err()
}

// InvalidateUser drops the cached set for one user, e.g. after its role
// assignment changed.
func (c *PermissionCache) InvalidateUser(ctx context.Context, userID uint64) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, permKey(userID)).Err()
}

// Flush drops every cached permission set.  Called after role or menu
// mutations, which can widen or narrow any user's set.
func (c *PermissionCache) Flush(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, permKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = c.rdb.Del(ctx, iter.Val()).Err()
	}
}

func permKey(userID uint64) string {
	return fmt.Sprintf("%s%d", permKeyPrefix, userID)
}
