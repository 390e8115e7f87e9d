package ratelimit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rentalsync/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limit là một giới hạn trượt: tối đa MaxCalls lời gọi trong Window
type Limit struct {
	Key      string
	Window   time.Duration
	MaxCalls int
}

// Store đếm và ghi nhận lời gọi cho một tập limit.
// Check phải atomic: prune trước, đếm, rồi ghi dưới mọi limit cùng lúc.
type Store interface {
	Check(ctx context.Context, limits []Limit, now time.Time) error
}

// RedisStore lưu counter trong redis dưới dạng sorted set theo timestamp,
// bền qua restart cho các window >= phút.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore tạo RedisStore mới
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "ratelimit:"}
}

// Check prune các entry quá window, đếm, và ghi nhận lời gọi nếu tất cả limit cho phép
func (s *RedisStore) Check(ctx context.Context, limits []Limit, now time.Time) error {
	pipe := s.rdb.Pipeline()
	counts := make([]*redis.IntCmd, len(limits))
	for i, l := range limits {
		key := s.prefix + l.Key
		cutoff := now.Add(-l.Window).UnixNano()
		pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff))
		counts[i] = pipe.ZCard(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	for i, l := range limits {
		if int(counts[i].Val()) >= l.MaxCalls {
			return &errors.ThrottlingError{Limit: l.Key, RetryAfter: l.Window}
		}
	}

	member := uuid.NewString()
	record := s.rdb.Pipeline()
	for _, l := range limits {
		key := s.prefix + l.Key
		record.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
		record.PExpire(ctx, key, l.Window)
	}
	_, err := record.Exec(ctx)
	return err
}

// MemoryStore là store in-memory, dùng cho test và chạy đơn tiến trình
type MemoryStore struct {
	mu    sync.Mutex
	calls map[string][]time.Time
}

// NewMemoryStore tạo MemoryStore mới
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{calls: map[string][]time.Time{}}
}

// Check prune, đếm, và ghi nhận lời gọi atomic dưới mutex
func (s *MemoryStore) Check(ctx context.Context, limits []Limit, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range limits {
		pruned := s.calls[l.Key][:0]
		cutoff := now.Add(-l.Window)
		for _, t := range s.calls[l.Key] {
			if t.After(cutoff) {
				pruned = append(pruned, t)
			}
		}
		s.calls[l.Key] = pruned
		if len(pruned) >= l.MaxCalls {
			return &errors.ThrottlingError{Limit: l.Key, RetryAfter: l.Window}
		}
	}
	for _, l := range limits {
		s.calls[l.Key] = append(s.calls[l.Key], now)
	}
	return nil
}

// endpointBucket là quota của một endpoint class
type endpointBucket struct {
	prefix string
	limits []Limit
}

// Limiter chọn throttle set cho một request outbound và gate qua Store.
// Mọi limit áp dụng phải cùng pass thì request mới được đi.
type Limiter struct {
	store   Store
	channel string
	buckets []endpointBucket
}

// NewLimiter tạo limiter với taxonomy cố định của channel
func NewLimiter(store Store, channel string) *Limiter {
	l := &Limiter{store: store, channel: channel}
	l.buckets = []endpointBucket{
		{prefix: "/authorizations", limits: []Limit{
			{Key: "ep:/authorizations:1h", Window: time.Hour, MaxCalls: 1000},
		}},
		{prefix: "/listing_photos", limits: []Limit{
			{Key: "ep:/listing_photos:1h", Window: time.Hour, MaxCalls: 50000},
		}},
		{prefix: "/calendar_operations", limits: []Limit{
			{Key: "ep:/calendar_operations:1m", Window: time.Minute, MaxCalls: 160},
		}},
		{prefix: "/messages", limits: []Limit{
			{Key: "ep:/messages:1m", Window: time.Minute, MaxCalls: 50},
		}},
		{prefix: "/threads", limits: []Limit{
			{Key: "ep:/threads:1m", Window: time.Minute, MaxCalls: 200},
		}},
	}
	// bucket theo prefix dài nhất trước
	sort.Slice(l.buckets, func(i, j int) bool {
		return len(l.buckets[i].prefix) > len(l.buckets[j].prefix)
	})
	return l
}

// ipLimits là quota origin-ip, chia sẻ cho mọi request outbound của tiến trình
func (l *Limiter) ipLimits() []Limit {
	p := l.channel + ":ip:"
	return []Limit{
		{Key: p + "10s", Window: 10 * time.Second, MaxCalls: 200},
		{Key: p + "5m", Window: 5 * time.Minute, MaxCalls: 2500},
		{Key: p + "1h", Window: time.Hour, MaxCalls: 20000},
		{Key: p + "1d", Window: 24 * time.Hour, MaxCalls: 200000},
	}
}

// defaultEndpointLimits là quota endpoint mặc định
func (l *Limiter) defaultEndpointLimits(path string) []Limit {
	p := l.channel + ":ep:" + path + ":"
	return []Limit{
		{Key: p + "10s", Window: 10 * time.Second, MaxCalls: 100},
		{Key: p + "5m", Window: 5 * time.Minute, MaxCalls: 1250},
		{Key: p + "1h", Window: time.Hour, MaxCalls: 7500},
		{Key: p + "1d", Window: 24 * time.Hour, MaxCalls: 90000},
	}
}

// LimitsFor chọn throttle set: ip + endpoint (longest-prefix) + per-user
func (l *Limiter) LimitsFor(path string, accountID uint) []Limit {
	limits := l.ipLimits()

	matched := false
	for _, b := range l.buckets {
		if strings.HasPrefix(path, b.prefix) {
			for _, bl := range b.limits {
				bl.Key = l.channel + ":" + bl.Key
				limits = append(limits, bl)
			}
			matched = true
			break
		}
	}
	if !matched {
		// gom về endpoint class theo segment đầu của path, bỏ query string
		class := path
		if q := strings.IndexByte(class, '?'); q >= 0 {
			class = class[:q]
		}
		if idx := strings.Index(strings.TrimPrefix(class, "/"), "/"); idx >= 0 {
			class = class[:idx+1]
		}
		limits = append(limits, l.defaultEndpointLimits(class)...)
	}

	if accountID != 0 {
		limits = append(limits, Limit{
			Key:      fmt.Sprintf("%s:user:%d:1h", l.channel, accountID),
			Window:   time.Hour,
			MaxCalls: 2000,
		})
	}
	return limits
}

// Check gate một request outbound tới path dưới account cho trước
func (l *Limiter) Check(ctx context.Context, path string, accountID uint) error {
	return l.store.Check(ctx, l.LimitsFor(path, accountID), time.Now())
}
