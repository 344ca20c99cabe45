package fulldates

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seed значение версии, которое заводится для нового тенанта
var seed = time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := New(rdb, time.Minute)
	c.now = func() time.Time { return seed }
	return c, mr
}

func currentVersion(t *testing.T, c *Cache, tenantID int64) int64 {
	t.Helper()
	v, err := c.version(context.Background(), tenantID)
	require.NoError(t, err)
	return v
}

func june(day int) time.Time {
	return time.Date(2030, time.June, day, 0, 0, 0, 0, time.UTC)
}

func TestCache_MissThenHit(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	k := Key{TenantID: 1, From: june(1), To: june(30), Ceiling: 8}

	_, version, err := c.Get(ctx, k)
	require.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, seed.UnixNano(), version)

	require.NoError(t, c.Set(ctx, k, version, []time.Time{june(3), june(10)}))

	dates, _, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{june(3), june(10)}, dates)
}

func TestCache_EmptyResultIsCached(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	k := Key{TenantID: 1, From: june(1), To: june(30), Ceiling: 8}

	require.NoError(t, c.Set(ctx, k, currentVersion(t, c, 1), []time.Time{}))

	dates, _, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestCache_InvalidateIsPerTenant(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	k1 := Key{TenantID: 1, From: june(1), To: june(30), Ceiling: 8}
	k2 := Key{TenantID: 2, From: june(1), To: june(30), Ceiling: 8}

	require.NoError(t, c.Set(ctx, k1, currentVersion(t, c, 1), []time.Time{june(3)}))
	require.NoError(t, c.Set(ctx, k2, currentVersion(t, c, 2), []time.Time{june(4)}))

	require.NoError(t, c.Invalidate(ctx, 1))

	_, version, err := c.Get(ctx, k1)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, seed.UnixNano()+1, version)

	dates, _, err := c.Get(ctx, k2)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{june(4)}, dates)
}

func TestCache_StaleWriteAfterInvalidateIsInvisible(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	k := Key{TenantID: 1, From: june(1), To: june(30), Ceiling: 8}

	_, version, err := c.Get(ctx, k)
	require.ErrorIs(t, err, ErrCacheMiss)

	// бронирование создано, пока значение вычислялось
	require.NoError(t, c.Invalidate(ctx, 1))
	require.NoError(t, c.Set(ctx, k, version, []time.Time{}))

	_, _, err = c.Get(ctx, k)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_TTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	k := Key{TenantID: 1, From: june(1), To: june(30), Ceiling: 8}

	require.NoError(t, c.Set(ctx, k, currentVersion(t, c, 1), []time.Time{june(3)}))
	mr.FastForward(2 * time.Minute)

	_, _, err := c.Get(ctx, k)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_EvictedVersionDoesNotReviveStaleEntries(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	k := Key{TenantID: 1, From: june(1), To: june(30), Ceiling: 8}

	stale := currentVersion(t, c, 1)
	require.NoError(t, c.Set(ctx, k, stale, []time.Time{june(3)}))
	require.NoError(t, c.Invalidate(ctx, 1))

	// redis вытеснил ключ версии, данные старой версии ещё живы
	mr.Del(versionKey(1))
	c.now = func() time.Time { return seed.Add(time.Second) }

	_, version, err := c.Get(ctx, k)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Greater(t, version, stale+1)
}

func TestCache_InvalidateWithoutVersionSeedsFirst(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Invalidate(ctx, 7))
	assert.Equal(t, seed.UnixNano()+1, currentVersion(t, c, 7))
}

func TestCache_RedisDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), Key{TenantID: 1, From: june(1), To: june(30), Ceiling: 8})
	assert.ErrorIs(t, err, ErrCache)
	assert.ErrorIs(t, c.Invalidate(context.Background(), 1), ErrCache)
}
