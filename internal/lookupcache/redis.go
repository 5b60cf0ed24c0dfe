package lookupcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ryanm101/gameshelf/internal/metrics"
)

// Redis is a Store shared between processes through a Redis server.
type Redis struct {
	client *redis.Client
	name   string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store. Keys are prefixed with "gameshelf:<name>:".
// A zero ttl keeps entries until Redis evicts them.
func NewRedis(client *redis.Client, name string, ttl time.Duration) *Redis {
	return &Redis{client: client, name: name, ttl: ttl}
}

// DialRedis parses a redis:// URL and verifies the server answers.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return client, nil
}

func (r *Redis) key(k string) string {
	return "gameshelf:" + r.name + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordLookup(r.name, false)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s entry %q: %w", r.name, key, err)
	}

	metrics.RecordLookup(r.name, true)
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s entry %q: %w", r.name, key, err)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s entry %q: %w", r.name, key, err)
	}
	if err := r.client.Set(ctx, r.key(key), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s entry %q: %w", r.name, key, err)
	}
	return nil
}
