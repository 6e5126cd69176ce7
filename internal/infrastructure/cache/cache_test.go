package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, client)

	_, err = NewRedisClient(context.Background(), "::not a url")
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client, err = NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NotNil(t, client)
	_ = client.Close()
}

func TestTokenBucket_ExhaustsBurst(t *testing.T) {
	_, client := newTestRedis(t)
	tb := NewTokenBucket(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := tb.Allow(ctx, "tenant-a", 0.001, 3)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
	}

	res, err := tb.Allow(ctx, "tenant-a", 0.001, 3)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Positive(t, res.RetryAfter)

	other, err := tb.Allow(ctx, "tenant-b", 0.001, 3)
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestTokenBucket_Validation(t *testing.T) {
	assert.Nil(t, NewTokenBucket(nil))

	var tb *TokenBucket
	_, err := tb.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)

	_, client := newTestRedis(t)
	tb = NewTokenBucket(client)
	_, err = tb.Allow(context.Background(), "", 1, 1)
	assert.Error(t, err)
	_, err = tb.Allow(context.Background(), "k", 0, 1)
	assert.Error(t, err)
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, 6*time.Second, bucketTTL(10, 30))
	assert.Equal(t, time.Second, bucketTTL(1000, 1))
}

func TestDashboardCache(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewDashboardCache(client, time.Minute)
	ctx := context.Background()
	tenantID := uuid.New()

	var got map[string]float64
	hit, err := c.Get(ctx, tenantID, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, tenantID, map[string]float64{"revenue": 97.2}))
	hit, err = c.Get(ctx, tenantID, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 97.2, got["revenue"])

	mr.FastForward(2 * time.Minute)
	hit, err = c.Get(ctx, tenantID, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, tenantID, map[string]float64{"revenue": 1}))
	require.NoError(t, c.Invalidate(ctx, tenantID))
	hit, _ = c.Get(ctx, tenantID, &got)
	assert.False(t, hit)
}

func TestDashboardCache_NilIsNoop(t *testing.T) {
	c := NewDashboardCache(nil, time.Minute)
	assert.Nil(t, c)

	hit, err := c.Get(context.Background(), uuid.New(), &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Set(context.Background(), uuid.New(), 1))
	assert.NoError(t, c.Invalidate(context.Background(), uuid.New()))
}
