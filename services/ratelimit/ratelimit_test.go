package ratelimit

import (
	"context"
	"testing"
	"time"

	apperrors "rentalsync/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreDeniesAtLimit(t *testing.T) {
	store := NewMemoryStore()
	limits := []Limit{{Key: "test:1m", Window: time.Minute, MaxCalls: 3}}
	now := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Check(context.Background(), limits, now))
	}
	err := store.Check(context.Background(), limits, now)
	require.Error(t, err)
	assert.True(t, apperrors.IsThrottling(err))
}

func TestMemoryStorePrunesExpiredCalls(t *testing.T) {
	store := NewMemoryStore()
	limits := []Limit{{Key: "test:10s", Window: 10 * time.Second, MaxCalls: 2}}
	now := time.Now()

	require.NoError(t, store.Check(context.Background(), limits, now))
	require.NoError(t, store.Check(context.Background(), limits, now))
	require.Error(t, store.Check(context.Background(), limits, now))

	// qua window thì các lời gọi cũ bị prune
	later := now.Add(11 * time.Second)
	require.NoError(t, store.Check(context.Background(), limits, later))
}

func TestMemoryStoreDeniedCallNotRecorded(t *testing.T) {
	store := NewMemoryStore()
	limits := []Limit{{Key: "test:1m", Window: time.Minute, MaxCalls: 1}}
	now := time.Now()

	require.NoError(t, store.Check(context.Background(), limits, now))
	// hai lời gọi bị từ chối không chiếm chỗ
	require.Error(t, store.Check(context.Background(), limits, now))
	require.Error(t, store.Check(context.Background(), limits, now))

	later := now.Add(61 * time.Second)
	require.NoError(t, store.Check(context.Background(), limits, later))
}

func TestMemoryStoreAllOrNothingAcrossLimits(t *testing.T) {
	store := NewMemoryStore()
	tight := Limit{Key: "tight", Window: time.Minute, MaxCalls: 1}
	loose := Limit{Key: "loose", Window: time.Minute, MaxCalls: 100}
	now := time.Now()

	require.NoError(t, store.Check(context.Background(), []Limit{tight, loose}, now))
	// tight chặn cả cặp, loose không bị ghi nhận thêm
	require.Error(t, store.Check(context.Background(), []Limit{tight, loose}, now))

	s := store
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Len(t, s.calls["loose"], 1)
}

func TestLimitsForKnownEndpoint(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), "airbnb")

	limits := l.LimitsFor("/calendar_operations", 0)
	// 4 limit ip + 1 limit endpoint
	require.Len(t, limits, 5)
	assert.Equal(t, "airbnb:ep:/calendar_operations:1m", limits[4].Key)
	assert.Equal(t, 160, limits[4].MaxCalls)
}

func TestLimitsForUnknownEndpointUsesDefaultClass(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), "airbnb")

	limits := l.LimitsFor("/listings/123/rooms", 0)
	require.Len(t, limits, 8)
	assert.Equal(t, "airbnb:ep:/listings:10s", limits[4].Key)
}

func TestLimitsForIgnoresQueryString(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), "airbnb")

	first := l.LimitsFor("/listings?user_id=x&offset=0", 0)
	second := l.LimitsFor("/listings?user_id=x&offset=50", 0)
	require.Len(t, first, 8)
	assert.Equal(t, "airbnb:ep:/listings:10s", first[4].Key)
	// trang khác nhau vẫn chung một endpoint class
	assert.Equal(t, first[4].Key, second[4].Key)
}

func TestLimitsForAppendsUserLimit(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), "airbnb")

	limits := l.LimitsFor("/messages", 42)
	last := limits[len(limits)-1]
	assert.Equal(t, "airbnb:user:42:1h", last.Key)
	assert.Equal(t, 2000, last.MaxCalls)
}

func TestLimiterCheckThrottles(t *testing.T) {
	l := NewLimiter(NewMemoryStore(), "airbnb")
	ctx := context.Background()

	// /messages: 50 lời gọi mỗi phút
	for i := 0; i < 50; i++ {
		require.NoError(t, l.Check(ctx, "/messages", 0))
	}
	err := l.Check(ctx, "/messages", 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsThrottling(err))
}
