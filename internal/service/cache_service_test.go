package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadThroughLoadsOnceThenHits(t *testing.T) {
	repo := newMemoryCache()
	cache := newTestCache(repo)
	ctx := context.Background()
	loads := 0
	load := func(context.Context) ([]string, error) {
		loads++
		return []string{"c-1", "c-2"}, nil
	}

	got, hit, err := readThrough(ctx, cache, "report:class:c-1:recorded", time.Minute, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"c-1", "c-2"}, got)

	got, hit, err = readThrough(ctx, cache, "report:class:c-1:recorded", time.Minute, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"c-1", "c-2"}, got)
	assert.Equal(t, 1, loads)
}

func TestReadThroughDoesNotCacheFailures(t *testing.T) {
	repo := newMemoryCache()
	cache := newTestCache(repo)
	boom := errors.New("db down")

	_, hit, err := readThrough(context.Background(), cache, dashboardCacheKey, time.Minute,
		func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, hit)
	assert.False(t, repo.has(dashboardCacheKey))
}

func TestReadThroughWithoutCache(t *testing.T) {
	var cache *CacheService
	got, hit, err := readThrough(context.Background(), cache, dashboardCacheKey, time.Minute,
		func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, got)
}

func TestInvalidateClassDropsReportsAndDashboard(t *testing.T) {
	repo := newMemoryCache()
	cache := newTestCache(repo)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, reportCacheKey("c-1", "recorded"), 1, 0))
	require.NoError(t, cache.Set(ctx, reportCacheKey("c-2", "recorded"), 1, 0))
	require.NoError(t, cache.Set(ctx, dashboardCacheKey, 1, 0))

	require.NoError(t, cache.InvalidateClass(ctx, "c-1"))

	assert.False(t, repo.has(reportCacheKey("c-1", "recorded")))
	assert.True(t, repo.has(reportCacheKey("c-2", "recorded")))
	assert.False(t, repo.has(dashboardCacheKey))
}
