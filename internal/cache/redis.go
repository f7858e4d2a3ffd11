package cache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// LocationsSnapshotKey caches the all-inspector-locations JSON served to
	// polling dashboards.
	LocationsSnapshotKey = "locations:snapshot"
	locationsSnapshotTTL = 8 * time.Second

	sessionKeyFmt = "session:last_activity:%d"
)

var client *redis.Client

// Init initializes the Redis connection. The rest of the package degrades
// gracefully when Redis is unavailable.
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client (nil when unavailable)
func GetClient() *redis.Client {
	return client
}

// GetCachedLocations returns the cached inspector-location snapshot if available
func GetCachedLocations(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, LocationsSnapshotKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheLocations caches the inspector-location snapshot for a few seconds,
// shorter than the dashboards' 10s poll interval.
func CacheLocations(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, LocationsSnapshotKey, data, locationsSnapshotTTL)
}

// InvalidateLocations drops the snapshot after a location update so the next
// poll sees fresh data.
func InvalidateLocations(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, LocationsSnapshotKey)
}

// ActivityStore tracks per-user last-activity timestamps for the session
// timeout middleware. Session state lives in a shared store, not on the
// request, so timeouts survive restarts and multiple replicas.
type ActivityStore interface {
	LastActivity(ctx context.Context, userID int) (time.Time, bool)
	Touch(ctx context.Context, userID int, at time.Time) error
	Clear(ctx context.Context, userID int) error
}

// RedisActivityStore keeps last-activity stamps in Redis. Keys expire on
// their own after the retention period as a safety net.
type RedisActivityStore struct {
	retention time.Duration
}

func NewRedisActivityStore(retention time.Duration) *RedisActivityStore {
	return &RedisActivityStore{retention: retention}
}

func (s *RedisActivityStore) LastActivity(ctx context.Context, userID int) (time.Time, bool) {
	if client == nil {
		return time.Time{}, false
	}
	unix, err := client.Get(ctx, fmt.Sprintf(sessionKeyFmt, userID)).Int64()
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}

func (s *RedisActivityStore) Touch(ctx context.Context, userID int, at time.Time) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, fmt.Sprintf(sessionKeyFmt, userID), at.Unix(), s.retention).Err()
}

func (s *RedisActivityStore) Clear(ctx context.Context, userID int) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, fmt.Sprintf(sessionKeyFmt, userID)).Err()
}

// MemoryActivityStore is the in-process fallback used when Redis is down,
// and the store used in tests.
type MemoryActivityStore struct {
	mu    sync.Mutex
	stamp map[int]time.Time
}

func NewMemoryActivityStore() *MemoryActivityStore {
	return &MemoryActivityStore{stamp: make(map[int]time.Time)}
}

func (s *MemoryActivityStore) LastActivity(_ context.Context, userID int) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.stamp[userID]
	return t, ok
}

func (s *MemoryActivityStore) Touch(_ context.Context, userID int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp[userID] = at
	return nil
}

func (s *MemoryActivityStore) Clear(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stamp, userID)
	return nil
}
