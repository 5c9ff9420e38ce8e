package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/stock-catalog/internal/core/domain"
)

const (
	recordKeyPrefix   = "record:"
	recordKeyTTL      = time.Hour
	idempotencyKeyTTL = 24 * time.Hour
)

// RedisAdapter caches record lines and tracks processed requests.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) CacheRecord(ctx context.Context, item domain.Item) error {
	line, err := domain.MarshalRecord(item)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return r.client.Set(ctx, recordKeyPrefix+item.SKU(), line, recordKeyTTL).Err()
}

func (r *RedisAdapter) CachedRecord(ctx context.Context, sku string) (domain.Item, bool, error) {
	line, err := r.client.Get(ctx, recordKeyPrefix+sku).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	item, err := domain.UnmarshalRecord(line)
	if err != nil {
		// a line we cannot decode is as good as a miss
		r.client.Del(ctx, recordKeyPrefix+sku)
		return nil, false, nil
	}
	return item, true, nil
}

func (r *RedisAdapter) InvalidateRecord(ctx context.Context, sku string) error {
	return r.client.Del(ctx, recordKeyPrefix+sku).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}
