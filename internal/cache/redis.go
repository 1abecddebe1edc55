package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dashboard cache keys
const (
	StatsKeyPrefix = "dashboard:stats:"
	StatsTTL       = 60 * time.Second
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every cache
// call degrades to a miss.
func Init(addr, password string) error {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return err
	}
	client = c
	return nil
}

// SetClient installs an already connected client
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Close releases the connection if one is open
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// GetCachedStats returns cached dashboard stats for a business date
func GetCachedStats(ctx context.Context, day string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, StatsKeyPrefix+day).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheStats caches dashboard stats for StatsTTL
func CacheStats(ctx context.Context, day string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, StatsKeyPrefix+day, data, StatsTTL)
}

// InvalidateStats drops the cached stats for a business date
func InvalidateStats(ctx context.Context, day string) {
	if client == nil {
		return
	}
	client.Del(ctx, StatsKeyPrefix+day)
}

// Stats adapts the package level cache to the dashboard service
type Stats struct{}

func (Stats) Get(ctx context.Context, day string) ([]byte, bool) {
	return GetCachedStats(ctx, day)
}

func (Stats) Set(ctx context.Context, day string, data []byte) {
	CacheStats(ctx, day, data)
}

func (Stats) Invalidate(ctx context.Context, day string) {
	InvalidateStats(ctx, day)
}

// Ping reports whether the cache is reachable
func (Stats) Ping(ctx context.Context) error {
	if client == nil {
		return redis.ErrClosed
	}
	return client.Ping(ctx).Err()
}
