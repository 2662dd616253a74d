package cart

import (
	"context"
	"time"

	"github.com/fixpointhq/fixpoint-backend/pkg/redis"
)

// SnapshotStores scopes snapshot persistence to individual sessions.
type SnapshotStores interface {
	ForSession(sessionID string) SnapshotStore
}

// RedisSnapshotStores builds per-session snapshot stores on top of redis.
type RedisSnapshotStores struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotStores wraps the redis client for cart snapshot access.
func NewRedisSnapshotStores(client *redis.Client, ttl time.Duration) *RedisSnapshotStores {
	return &RedisSnapshotStores{client: client, ttl: ttl}
}

// ForSession scopes a snapshot store to the given session.
func (s *RedisSnapshotStores) ForSession(sessionID string) SnapshotStore {
	return &redisSnapshotStore{
		client: s.client,
		key:    s.client.CartSnapshotKey(sessionID),
		ttl:    s.ttl,
	}
}

// redisSnapshotStore persists one session's cart snapshot under a namespaced
// redis key.
type redisSnapshotStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// Load returns the stored snapshot, reporting whether one existed.
func (s *redisSnapshotStore) Load(ctx context.Context) (string, bool, error) {
	return s.client.Get(ctx, s.key)
}

// Save writes the snapshot with the configured TTL.
func (s *redisSnapshotStore) Save(ctx context.Context, snapshot string) error {
	return s.client.Set(ctx, s.key, snapshot, s.ttl)
}
