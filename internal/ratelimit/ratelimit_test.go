package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterFixedWindow(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	limiter := New(Policy{Name: "leads", Limit: 2, Window: time.Minute}, store)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		d, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "hit %d", i)
		assert.EqualValues(t, i, d.Count)
	}

	d, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.EqualValues(t, 3, d.Count)
	assert.Equal(t, 2, d.Limit)

	other, err := limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "subjects are counted separately")

	now = now.Add(time.Minute)
	d, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "window resets")
	assert.EqualValues(t, 1, d.Count)
}

func TestLimiterDisabled(t *testing.T) {
	ctx := context.Background()

	for _, limiter := range []*Limiter{
		nil,
		New(Policy{Name: "off", Limit: 0, Window: time.Minute}, NewMemoryStore()),
		New(Policy{Name: "nostore", Limit: 1, Window: time.Minute}, nil),
	} {
		for i := 0; i < 3; i++ {
			d, err := limiter.Allow(ctx, "ip")
			require.NoError(t, err)
			assert.True(t, d.Allowed)
		}
	}
}

type failingStore struct{}

func (failingStore) IncrWithTTL(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("store down")
}

func TestLimiterStoreError(t *testing.T) {
	limiter := New(Policy{Name: "leads", Limit: 1, Window: time.Minute}, failingStore{})
	_, err := limiter.Allow(context.Background(), "ip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit leads")
}

type mockCmdable struct {
	incr    map[string]int64
	expires map[string]time.Duration
}

func (m *mockCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func TestRedisStoreSetsTTLOnFirstHit(t *testing.T) {
	mock := &mockCmdable{incr: map[string]int64{}, expires: map[string]time.Duration{}}
	store := &RedisStore{store: mock}
	ctx := context.Background()

	count, err := store.IncrWithTTL(ctx, "rl:leads:ip", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, time.Minute, mock.expires["labgrowth:rl:leads:ip"])

	delete(mock.expires, "labgrowth:rl:leads:ip")
	count, err = store.IncrWithTTL(ctx, "rl:leads:ip", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.NotContains(t, mock.expires, "labgrowth:rl:leads:ip")
}

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "")
	require.Error(t, err)

	_, err = NewRedisStore(context.Background(), "mysql://nope")
	require.Error(t, err)
}
