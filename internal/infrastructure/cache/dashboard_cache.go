package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DashboardCache stores one serialized dashboard per tenant
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache returns nil when client is nil or ttl is not positive
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &DashboardCache{client: client, ttl: ttl}
}

func dashboardKey(tenantID uuid.UUID) string {
	return "shopfloor:dashboard:" + tenantID.String()
}

// Get decodes the cached dashboard into dest. It reports false on a miss.
func (c *DashboardCache) Get(ctx context.Context, tenantID uuid.UUID, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, dashboardKey(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v for the configured TTL
func (c *DashboardCache) Set(ctx context.Context, tenantID uuid.UUID, v any) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardKey(tenantID), raw, c.ttl).Err()
}

// Invalidate drops the tenant's cached dashboard
func (c *DashboardCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, dashboardKey(tenantID)).Err()
}
