package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/example/room-booking/internal/calendar"
)

// DefaultKeyPrefix namespaces availability entries in a shared Redis.
const DefaultKeyPrefix = "booking:"

// Redis stores availability entries as JSON arrays with a TTL.
type Redis struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

// NewRedis wraps client. An empty keyPrefix uses DefaultKeyPrefix.
func NewRedis(client redis.Cmdable, keyPrefix string, ttl time.Duration) *Redis {
	if client == nil {
		panic("redis client cannot be nil for availability cache")
	}
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (r *Redis) reservedKey(date calendar.Date) string {
	return fmt.Sprintf("%sreserved:%s", r.keyPrefix, date.String())
}

// ReservedRooms reads the entry for date. A missing key is a miss, not an error.
func (r *Redis) ReservedRooms(ctx context.Context, date calendar.Date) ([]string, bool, error) {
	key := r.reservedKey(date)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis: failed to get %s: %w", key, err)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, fmt.Errorf("redis: failed to decode %s: %w", key, err)
	}
	return cloneIDs(ids), true, nil
}

// StoreReservedRooms writes the entry for date.
func (r *Redis) StoreReservedRooms(ctx context.Context, date calendar.Date, roomIDs []string) error {
	key := r.reservedKey(date)
	payload, err := json.Marshal(cloneIDs(roomIDs))
	if err != nil {
		return fmt.Errorf("redis: failed to encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to set %s: %w", key, err)
	}
	return nil
}

// Invalidate deletes the entry for date.
func (r *Redis) Invalidate(ctx context.Context, date calendar.Date) error {
	key := r.reservedKey(date)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete %s: %w", key, err)
	}
	return nil
}

// Ping checks that the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
