package cart

import (
	"context"
	"time"

	"github.com/mcruzdev/bundlecart-backend/pkg/redis"
)

// RedisStorage persists guest carts in Redis under the shared namespace.
// TTL zero keeps carts until explicitly cleared.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage wraps the platform redis client as a cart Storage.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (r *RedisStorage) Read(ctx context.Context, key string) ([]byte, bool, error) {
	return r.client.ReadBytes(ctx, r.client.GuestCartKey(key))
}

func (r *RedisStorage) Write(ctx context.Context, key string, payload []byte) error {
	return r.client.WriteBytes(ctx, r.client.GuestCartKey(key), payload, r.ttl)
}
