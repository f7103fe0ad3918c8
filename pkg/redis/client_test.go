package redis

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repairdepot/storefront/pkg/config"
)

// memStore is a single-goroutine stand-in for the commands Client issues.
// Expirations are recorded, never enforced.
type memStore struct {
	vals    map[string]string
	ttls    map[string]time.Duration
	expires int
}

func newMemStore() *memStore {
	return &memStore{vals: map[string]string{}, ttls: map[string]time.Duration{}}
}

func testClient() (*Client, *memStore) {
	m := newMemStore()
	return &Client{store: m}, m
}

func (m *memStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memStore) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.vals[key] = fmt.Sprint(value)
	if ttl > 0 {
		m.ttls[key] = ttl
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *memStore) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.vals[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memStore) GetDel(ctx context.Context, key string) *redis.StringCmd {
	cmd := m.Get(ctx, key)
	delete(m.vals, key)
	delete(m.ttls, key)
	return cmd
}

func (m *memStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, taken := m.vals[key]; taken {
		return redis.NewBoolResult(false, nil)
	}
	m.Set(ctx, key, value, ttl)
	return redis.NewBoolResult(true, nil)
}

func (m *memStore) Incr(_ context.Context, key string) *redis.IntCmd {
	n, _ := strconv.ParseInt(m.vals[key], 10, 64)
	n++
	m.vals[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (m *memStore) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expires++
	m.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *memStore) TTL(_ context.Context, key string) *redis.DurationCmd {
	if ttl, ok := m.ttls[key]; ok {
		return redis.NewDurationResult(ttl, nil)
	}
	return redis.NewDurationResult(noExpiry, nil)
}

func (m *memStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.vals, k)
		delete(m.ttls, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	client, store := testClient()

	for want := int64(1); want <= 2; want++ {
		allowed, count, err := client.FixedWindowAllow(ctx, "forgot:1.2.3.4", 2, time.Second)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, want, count)
	}
	assert.Equal(t, 1, store.expires, "window expiry is set once")

	allowed, count, err := client.FixedWindowAllow(ctx, "forgot:1.2.3.4", 2, time.Second)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.EqualValues(t, 3, count)
}

func TestIncrWithTTLRepairsMissingExpiry(t *testing.T) {
	ctx := context.Background()
	client, store := testClient()
	key := client.RateLimitKey("stuck")
	store.vals[key] = "4"

	count, err := client.IncrWithTTL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
	assert.Equal(t, time.Minute, store.ttls[key])

	_, err = client.IncrWithTTL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, store.expires)
}

func TestIncrWithTTLZeroSkipsExpiry(t *testing.T) {
	client, store := testClient()
	_, err := client.IncrWithTTL(context.Background(), "counter", 0)
	require.NoError(t, err)
	assert.Zero(t, store.expires)
}

func TestGetDelConsumesValue(t *testing.T) {
	ctx := context.Background()
	client, _ := testClient()
	key := client.ResetTokenKey("abc123")

	require.NoError(t, client.Set(ctx, key, "user-1", 10*time.Minute))
	got, err := client.GetDel(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got)

	_, err = client.GetDel(ctx, key)
	assert.ErrorIs(t, err, Nil)
}

func TestUninitializedClient(t *testing.T) {
	var client Client
	_, err := client.Get(context.Background(), "k")
	assert.ErrorIs(t, err, errNotReady)
	assert.ErrorIs(t, client.Ping(context.Background()), errNotReady)
	assert.NoError(t, client.Close())
}

func TestKeyBuilders(t *testing.T) {
	var c Client
	assert.Equal(t, "sf:idempotency:scope:id", c.IdempotencyKey("scope", "id"))
	assert.Equal(t, "sf:rate_limit:scope", c.RateLimitKey("scope"))
	assert.Equal(t, "sf:cache:autocomplete:screen", c.CacheKey("autocomplete", "screen"))
	assert.Equal(t, "sf:cache:autocomplete", c.CacheKey("autocomplete", ""))
	assert.Equal(t, "sf:reset_token:deadbeef", c.ResetTokenKey("deadbeef"))
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/3", PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)
}
