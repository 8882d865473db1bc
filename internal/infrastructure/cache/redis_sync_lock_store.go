package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bobashop/backend/internal/infrastructure/scheduler"
)

// RedisSyncLockStore implements the scheduler lock store on Redis. It is
// needed when multiple instances share one database and must not drain the
// sync queue concurrently.
type RedisSyncLockStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSyncLockStore creates a Redis-based sync lock store
func NewRedisSyncLockStore(cfg RedisConfig) (*RedisSyncLockStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSyncLockStore{
		client:    client,
		keyPrefix: "sync:lock:",
	}, nil
}

// NewRedisSyncLockStoreWithClient creates a store with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisSyncLockStoreWithClient(client *redis.Client, keyPrefix string) *RedisSyncLockStore {
	if keyPrefix == "" {
		keyPrefix = "sync:lock:"
	}
	return &RedisSyncLockStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// AcquireLock atomically claims the named lock with a TTL using SETNX.
// The TTL bounds how long a crashed holder can block other instances.
func (s *RedisSyncLockStore) AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	key := s.keyPrefix + name

	acquired, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	return acquired, nil
}

// ReleaseLock releases the named lock early
func (s *RedisSyncLockStore) ReleaseLock(ctx context.Context, name string) error {
	key := s.keyPrefix + name

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisSyncLockStore) Close() error {
	return s.client.Close()
}

// Ensure RedisSyncLockStore implements the scheduler lock store
var _ scheduler.LockStore = (*RedisSyncLockStore)(nil)
